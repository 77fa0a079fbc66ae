package mysterybox

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"roundtracker/backend/internal/models"
)

// VoteStatus is the outcome of a ballot.
type VoteStatus string

const (
	VotePending  VoteStatus = "PENDING"
	VoteApproved VoteStatus = "APPROVED"
	VoteRejected VoteStatus = "REJECTED"
)

// Tally is the running count of a vote.
type Tally struct {
	Yes     int              `json:"yes"`
	No      int              `json:"no"`
	Ballots models.VoteTally `json:"ballots"`
}

// VoteResult describes a vote after a start or a ballot.
type VoteResult struct {
	VoteID       uint                   `json:"vote_id"`
	Intent       models.VoteIntent      `json:"intent"`
	Status       VoteStatus             `json:"status"`
	Voters       []uint                 `json:"voters"`
	VotersNeeded int                    `json:"voters_needed"`
	Tally        Tally                  `json:"tally"`
	Rerolled     bool                   `json:"rerolled"`
	Roll         *models.MysteryBoxRoll `json:"roll,omitempty"`
}

func newTally(t models.VoteTally) Tally {
	yes, no := t.Count()
	return Tally{Yes: yes, No: no, Ballots: t}
}

// Summarize reports an in-flight vote as PENDING.
func Summarize(v *models.MysteryBoxDiscardVote) VoteResult {
	voters := v.Voters.Data()
	return VoteResult{
		VoteID:       v.ID,
		Intent:       v.Intent,
		Status:       VotePending,
		Voters:       voters,
		VotersNeeded: len(voters),
		Tally:        newTally(v.Votes.Data()),
	}
}

// StartDiscardVote opens a vote on the active roll of the lobby hostID hosts.
// The required voters are the participants at this moment.
func (s *Service) StartDiscardVote(ctx context.Context, hostID uint, intent models.VoteIntent) (*VoteResult, error) {
	if !intent.Valid() {
		return nil, ErrInvalidIntent
	}
	var result VoteResult
	err := s.transact(ctx, func(tx *gorm.DB, out *outbox) error {
		l, err := requireHostLobby(tx, hostID)
		if err != nil {
			return err
		}
		roll, err := activeRoll(tx, l)
		if err != nil {
			return err
		}
		if roll == nil {
			return ErrNoActiveRoll
		}

		var open int64
		if err := tx.Model(&models.MysteryBoxDiscardVote{}).
			Where("lobby_id = ? AND status = ?", l.ID, VotePending).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrVoteInProgress
		}
		if err := tx.Where("lobby_id = ?", l.ID).Delete(&models.MysteryBoxDiscardVote{}).Error; err != nil {
			return err
		}

		voters, err := participants(tx, l)
		if err != nil {
			return err
		}
		vote := models.MysteryBoxDiscardVote{
			LobbyID:       l.ID,
			RollID:        roll.ID,
			Intent:        intent,
			Status:        string(VotePending),
			InitiatedByID: hostID,
			Voters:        datatypes.NewJSONType(voters),
			Votes:         datatypes.NewJSONType(models.VoteTally{}),
		}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}

		result = Summarize(&vote)
		out.add(l.ID, EventVoteStarted, result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CastVote records userID's ballot, overwriting an earlier one. Once every
// voter has a ballot the vote resolves: any NO rejects it, all YES discards
// the roll and, for a reroll, spins a new one.
func (s *Service) CastVote(ctx context.Context, userID uint, choice models.Ballot) (*VoteResult, error) {
	if !choice.Valid() {
		return nil, ErrInvalidBallot
	}
	var result *VoteResult
	err := s.transact(ctx, func(tx *gorm.DB, out *outbox) error {
		lobbyID, err := currentLobbyID(tx, userID)
		if err != nil {
			return err
		}
		if _, err := lockLobby(tx, lobbyID); err != nil {
			return err
		}

		var vote models.MysteryBoxDiscardVote
		err = tx.Where("lobby_id = ?", lobbyID).First(&vote).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoVoteInProgress
		}
		if err != nil {
			return fmt.Errorf("load vote: %w", err)
		}

		voters := vote.Voters.Data()
		switch VoteStatus(vote.Status) {
		case VotePending:
		case VoteApproved:
			// A repeated final ballot sees the approval again.
			if !slices.Contains(voters, userID) {
				return ErrNoVoteInProgress
			}
			result, err = approvedResult(tx, &vote)
			return err
		default:
			return ErrNoVoteInProgress
		}
		if !slices.Contains(voters, userID) {
			return ErrNotAVoter
		}
		tally := models.VoteTally{}
		for id, b := range vote.Votes.Data() {
			tally[id] = b
		}
		if err := tally.Validate(voters); err != nil {
			return fmt.Errorf("vote %d: %w", vote.ID, err)
		}

		tally[userID] = choice
		if err := tx.Model(&vote).Update("votes", datatypes.NewJSONType(tally)).Error; err != nil {
			return err
		}

		for _, v := range voters {
			if _, voted := tally[v]; !voted {
				r := Summarize(&vote)
				r.Tally = newTally(tally)
				result = &r
				out.add(lobbyID, EventVoteUpdated, r)
				return nil
			}
		}

		result, err = s.resolve(tx, &vote, tally, out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// approvedResult reports a vote that already resolved as APPROVED. A reroll
// shows the roll that replaced the voted one while it is still active.
func approvedResult(tx *gorm.DB, vote *models.MysteryBoxDiscardVote) (*VoteResult, error) {
	r := Summarize(vote)
	r.Status = VoteApproved
	if vote.Intent != models.IntentReroll {
		return &r, nil
	}
	l, err := lockLobby(tx, vote.LobbyID)
	if err != nil {
		return nil, err
	}
	roll, err := activeRoll(tx, l)
	if err != nil {
		return nil, err
	}
	if roll != nil && roll.ID != vote.RollID {
		r.Rerolled = true
		r.Roll = roll
	}
	return &r, nil
}

// resolve settles a fully cast vote and records the outcome on the vote row.
// Every delete is delete-if-exists, so a second resolution of the same vote
// finds nothing left to remove, still reports APPROVED and does not spin
// again.
func (s *Service) resolve(tx *gorm.DB, vote *models.MysteryBoxDiscardVote, tally models.VoteTally, out *outbox) (*VoteResult, error) {
	voters := vote.Voters.Data()
	result := &VoteResult{
		VoteID:       vote.ID,
		Intent:       vote.Intent,
		Voters:       voters,
		VotersNeeded: len(voters),
		Tally:        newTally(tally),
		Status:       VoteApproved,
	}
	if result.Tally.No > 0 {
		result.Status = VoteRejected
	}

	if err := tx.Model(&models.MysteryBoxDiscardVote{}).
		Where("id = ?", vote.ID).
		Update("status", string(result.Status)).Error; err != nil {
		return nil, err
	}

	if result.Status == VoteRejected {
		out.add(vote.LobbyID, EventVoteResolved, result)
		return result, nil
	}

	if err := tx.Model(&models.MysteryBoxLobby{}).
		Where("id = ? AND current_roll_id = ?", vote.LobbyID, vote.RollID).
		Update("current_roll_id", nil).Error; err != nil {
		return nil, err
	}
	res := tx.Where("id = ? AND completed_by_host = ?", vote.RollID, false).Delete(&models.MysteryBoxRoll{})
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 1 {
		out.add(vote.LobbyID, EventRollDiscarded, struct {
			RollID uint `json:"roll_id"`
		}{vote.RollID})

		if vote.Intent == models.IntentReroll {
			l, err := lockLobby(tx, vote.LobbyID)
			if err != nil {
				return nil, err
			}
			roll, err := s.spinRoll(tx, l, out)
			switch {
			case err == nil:
				result.Rerolled = true
				result.Roll = roll
			case errors.Is(err, ErrNoTokens), errors.Is(err, ErrNoMaps):
			default:
				return nil, err
			}
		}
	}

	out.add(vote.LobbyID, EventVoteResolved, result)
	return result, nil
}
