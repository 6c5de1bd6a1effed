package client

import (
	"encoding/json"
	"strings"
)

// TxLogs holds the execution logs of every message of a transaction.
type TxLogs []TxLog

// TxLog is the execution log of a single message.
type TxLog struct {
	MsgIndex int     `json:"msg_index"`
	Log      string  `json:"log"`
	Events   []Event `json:"events"`
}

// Event is emitted by the ledger while executing a message.
type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// Attribute is a single key value pair of an event.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseLogs decodes the structured logs from a raw ledger log. A raw log
// that is not structured, for example an error message, results in no logs.
func ParseLogs(raw string) TxLogs {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "[") {
		return nil
	}
	var logs TxLogs
	if err := json.Unmarshal([]byte(raw), &logs); err != nil {
		return nil
	}
	return logs
}

// Attribute returns all values of the attribute emitted with an event of
// the given type by the message at the given index, in emission order.
func (l TxLogs) Attribute(msgIndex int, eventType, key string) []string {
	var res []string
	for _, log := range l {
		if log.MsgIndex != msgIndex {
			continue
		}
		for _, ev := range log.Events {
			if ev.Type != eventType {
				continue
			}
			for _, a := range ev.Attributes {
				if a.Key == key {
					res = append(res, a.Value)
				}
			}
		}
	}
	return res
}
