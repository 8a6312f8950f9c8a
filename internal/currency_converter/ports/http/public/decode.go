package public

import (
	"bytes"
	"encoding/json"
	"github.com/langowen/currency_converter/internal/currency_converter/service"
	"github.com/langowen/currency_converter/internal/entities"
	"github.com/pkg/errors"
)

// ErrBadRequest marks a body that is not a JSON message object.
var ErrBadRequest = errors.New("invalid request")

type message struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type convertData struct {
	SourceCurrency json.RawMessage `json:"source_currency"`
	TargetCurrency json.RawMessage `json:"target_currency"`
	Amount         any             `json:"amount"`
}

type ratesData struct {
	CurrencyCode json.RawMessage `json:"currency_code"`
}

// DecodeRequest turns one wire message into its request variant. It is the
// only place an unrecognised action is detected.
func DecodeRequest(body []byte) (service.Request, error) {
	var msg message
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, errors.Wrap(ErrBadRequest, err.Error())
	}

	switch service.Action(msg.Action) {
	case service.ActionConvert:
		var data convertData
		if err := decodeData(msg.Data, &data); err != nil {
			return nil, err
		}
		return service.ConvertRequest{
			Source: codeOf(data.SourceCurrency),
			Target: codeOf(data.TargetCurrency),
			Amount: data.Amount,
		}, nil

	case service.ActionRates:
		var data ratesData
		if err := decodeData(msg.Data, &data); err != nil {
			return nil, err
		}
		return service.RatesRequest{Code: codeOf(data.CurrencyCode)}, nil

	case service.ActionSupported:
		return service.SupportedRequest{}, nil

	default:
		return nil, errors.Wrapf(entities.ErrUnknownAction, "action %q", msg.Action)
	}
}

// decodeData keeps numbers as json.Number so the amount check sees the raw
// JSON type. A missing or null data object leaves v zero-valued.
func decodeData(raw json.RawMessage, v any) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(ErrBadRequest, err.Error())
	}

	return nil
}

// codeOf reads a currency code field. A value that is not a JSON string is
// kept as its raw text, so it fails later as an unknown currency.
func codeOf(raw json.RawMessage) entities.Code {
	var code string
	if err := json.Unmarshal(raw, &code); err != nil {
		return entities.Code(raw)
	}
	return entities.Code(code)
}
