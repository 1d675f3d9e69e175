package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Amount is a monetary value in micro currency units (1e-6). Amounts stay
// integral internally so running totals never accumulate float drift; they
// are rendered as fractional currency only at the serialization boundary.
type Amount int64

// StreamRate is the payout rate: 0.004 currency units per monetizable
// stream, or per started minute when pricing a single stream.
const StreamRate Amount = 4000

// MonetizationAmount prices a single monetizable stream:
// rate x ceil(duration / 1min), counting any started minute in full.
func MonetizationAmount(duration time.Duration) Amount {
	seconds := int64(duration / time.Second)
	minutes := (seconds + 59) / 60
	return StreamRate * Amount(minutes)
}

// AmountForStreams prices n monetizable streams at the flat per-stream rate
// used by report totals.
func AmountForStreams(n int) Amount {
	return StreamRate * Amount(n)
}

// Add returns the sum of two amounts.
func (a Amount) Add(b Amount) Amount { return a + b }

// Float64 returns the amount in whole currency units.
func (a Amount) Float64() float64 { return float64(a) / 1e6 }

func (a Amount) String() string { return fmt.Sprintf("%.6f", a.Float64()) }

// MarshalJSON renders the amount as a fractional currency number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Float64())
}

// UnmarshalJSON accepts a fractional currency number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f*1e6 + 0.5)
	return nil
}
