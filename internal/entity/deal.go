package entity

import "encoding/json"

const DealStatusSuccessful = "successful"

// Deal is a historical engagement. The core never mutates deals, so the
// original bytes are kept and written back as they were read.
type Deal struct {
	ID             string         `json:"id"`
	Company        string         `json:"company"`
	Industry       string         `json:"industry"`
	DealSize       *float64       `json:"deal_size,omitempty"`
	Status         string         `json:"status"`
	StartDate      string         `json:"start_date"`
	CompletionDate string         `json:"completion_date"`
	KeyMetrics     map[string]any `json:"key_metrics,omitempty"`

	raw json.RawMessage
}

type dealAlias Deal

func (d *Deal) UnmarshalJSON(data []byte) error {
	var a dealAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = Deal(a)
	d.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (d Deal) MarshalJSON() ([]byte, error) {
	if len(d.raw) > 0 {
		return d.raw, nil
	}
	return json.Marshal(dealAlias(d))
}

// ROI returns key_metrics.roi when present.
func (d Deal) ROI() (any, bool) {
	if d.KeyMetrics == nil {
		return nil, false
	}
	v, ok := d.KeyMetrics["roi"]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
