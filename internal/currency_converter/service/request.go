package service

import (
	"bytes"
	"encoding/json"
	"github.com/langowen/currency_converter/internal/entities"
)

type Action string

const (
	ActionConvert   Action = "convert_currency"
	ActionRates     Action = "get_exchange_rates"
	ActionSupported Action = "get_supported_currencies"
)

// Request is one decoded inbound message. The set of implementations is
// closed: ConvertRequest, RatesRequest and SupportedRequest.
type Request interface {
	Action() Action
	isRequest()
}

type ConvertRequest struct {
	Source entities.Code
	Target entities.Code
	// Amount is validated by Convert; anything but a finite number is rejected.
	Amount any
}

type RatesRequest struct {
	Code entities.Code
}

type SupportedRequest struct{}

func (ConvertRequest) Action() Action   { return ActionConvert }
func (RatesRequest) Action() Action     { return ActionRates }
func (SupportedRequest) Action() Action { return ActionSupported }

func (ConvertRequest) isRequest()   {}
func (RatesRequest) isRequest()     {}
func (SupportedRequest) isRequest() {}

type ConvertResult struct {
	SourceCurrency  entities.Code `json:"source_currency"`
	TargetCurrency  entities.Code `json:"target_currency"`
	Amount          float64       `json:"amount"`
	ConvertedAmount float64       `json:"converted_amount"`
}

// CurrencyList encodes as a JSON object of code to name, keeping slice order.
type CurrencyList []entities.Currency

func (l CurrencyList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(c.Code))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
