package models

import (
	"encoding/json"
	"fmt"
)

// Ballot is a single YES/NO choice.
type Ballot string

const (
	BallotYes Ballot = "YES"
	BallotNo  Ballot = "NO"
)

// Valid reports whether b is YES or NO.
func (b Ballot) Valid() bool {
	return b == BallotYes || b == BallotNo
}

// UnmarshalJSON rejects anything but YES or NO so a corrupt tally never loads.
func (b *Ballot) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v := Ballot(s)
	if !v.Valid() {
		return fmt.Errorf("invalid ballot %q", s)
	}
	*b = v
	return nil
}

// VoteTally maps a participant id to their ballot.
type VoteTally map[uint]Ballot

// Count returns the number of YES and NO ballots.
func (t VoteTally) Count() (yes, no int) {
	for _, b := range t {
		switch b {
		case BallotYes:
			yes++
		case BallotNo:
			no++
		}
	}
	return yes, no
}

// Validate checks every ballot was cast by one of voters.
func (t VoteTally) Validate(voters []uint) error {
	allowed := make(map[uint]struct{}, len(voters))
	for _, v := range voters {
		allowed[v] = struct{}{}
	}
	for id, b := range t {
		if !b.Valid() {
			return fmt.Errorf("invalid ballot %q for user %d", b, id)
		}
		if _, ok := allowed[id]; !ok {
			return fmt.Errorf("ballot from non-voter %d", id)
		}
	}
	return nil
}
