// Package mysterybox runs the host-owned mystery box lobby: membership,
// invites, rolls and the unanimous discard vote. Every operation checks its
// preconditions and writes inside one transaction.
package mysterybox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"gorm.io/gorm"

	"roundtracker/backend/internal/catalog"
	"roundtracker/backend/internal/hub"
	"roundtracker/backend/internal/models"
)

// Event types published to lobby subscribers.
const (
	EventMemberJoined  = "member_joined"
	EventMemberLeft    = "member_left"
	EventMemberKicked  = "member_kicked"
	EventLobbyClosed   = "lobby_closed"
	EventRollSpun      = "roll_spun"
	EventRollCompleted = "roll_completed"
	EventRollDiscarded = "roll_discarded"
	EventVoteStarted   = "vote_started"
	EventVoteUpdated   = "vote_updated"
	EventVoteResolved  = "vote_resolved"
	EventVoteCancelled = "vote_cancelled"
)

// Broadcaster receives lobby events after the change that caused them commits.
type Broadcaster interface {
	Broadcast(event hub.Event)
	Close(lobbyID uint)
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(hub.Event) {}
func (nopBroadcaster) Close(uint)          {}

type Service struct {
	db     *gorm.DB
	cat    *catalog.Catalog
	events Broadcaster
	intn   func(n int) int
}

// NewService builds the lobby service. events may be nil.
func NewService(db *gorm.DB, cat *catalog.Catalog, events Broadcaster) *Service {
	if events == nil {
		events = nopBroadcaster{}
	}
	return &Service{db: db, cat: cat, events: events, intn: rand.IntN}
}

// outbox collects events during a transaction; they are sent only on commit.
type outbox struct {
	events []hub.Event
	closed []uint
}

func (o *outbox) add(lobbyID uint, typ string, payload any) {
	o.events = append(o.events, hub.Event{Type: typ, LobbyID: lobbyID, Payload: payload})
}

func (o *outbox) close(lobbyID uint) {
	o.add(lobbyID, EventLobbyClosed, nil)
	o.closed = append(o.closed, lobbyID)
}

// transact runs fn in a transaction and publishes its events once it commits.
func (s *Service) transact(ctx context.Context, fn func(tx *gorm.DB, out *outbox) error) error {
	out := &outbox{}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, out)
	}); err != nil {
		return err
	}
	for _, e := range out.events {
		s.events.Broadcast(e)
	}
	for _, id := range out.closed {
		s.events.Close(id)
	}
	return nil
}

type userPayload struct {
	UserID uint `json:"user_id"`
}

// RemovesUser reports whether the encoded event takes userID out of the
// lobby, after which their stream should end.
func RemovesUser(msg []byte, userID uint) bool {
	var evt struct {
		Type    string      `json:"type"`
		Payload userPayload `json:"payload"`
	}
	if err := json.Unmarshal(msg, &evt); err != nil {
		return false
	}
	return (evt.Type == EventMemberKicked || evt.Type == EventMemberLeft) && evt.Payload.UserID == userID
}

// GetOrCreateLobby returns the lobby userID is a member of, or else the one
// they host, creating it on first use.
func (s *Service) GetOrCreateLobby(ctx context.Context, userID uint) (*Lobby, error) {
	var lobby *Lobby
	err := s.transact(ctx, func(tx *gorm.DB, _ *outbox) error {
		m, err := membership(tx, userID)
		if err != nil {
			return err
		}
		var lobbyID uint
		if m != nil {
			lobbyID = m.LobbyID
		} else {
			l, err := ensureHostLobby(tx, userID)
			if err != nil {
				return err
			}
			lobbyID = l.ID
		}
		lobby, err = loadLobby(tx, lobbyID)
		return err
	})
	return lobby, err
}

// CurrentLobbyID returns the lobby userID takes part in without creating one.
func (s *Service) CurrentLobbyID(ctx context.Context, userID uint) (uint, error) {
	return currentLobbyID(s.db.WithContext(ctx), userID)
}

// Invite sends a lobby invite from hostID to friendID as a notification.
func (s *Service) Invite(ctx context.Context, hostID, friendID uint) (*models.Notification, error) {
	if hostID == friendID {
		return nil, ErrCannotInviteSelf
	}
	var invite *models.Notification
	err := s.transact(ctx, func(tx *gorm.DB, _ *outbox) error {
		if err := requireUser(tx, friendID); err != nil {
			return err
		}
		l, err := ensureHostLobby(tx, hostID)
		if err != nil {
			return err
		}

		roll, err := activeRoll(tx, l)
		if err != nil {
			return err
		}
		if roll != nil {
			return ErrInvitesLocked
		}

		count, err := memberCount(tx, l.ID)
		if err != nil {
			return err
		}
		if count >= models.MaxLobbyMembers {
			return ErrLobbyFull
		}

		var already int64
		if err := tx.Model(&models.MysteryBoxLobbyMember{}).
			Where("lobby_id = ? AND user_id = ?", l.ID, friendID).
			Count(&already).Error; err != nil {
			return err
		}
		if already > 0 {
			return ErrAlreadyMember
		}

		friends, err := models.AreFriends(tx, hostID, friendID)
		if err != nil {
			return err
		}
		if !friends {
			return ErrNotFriends
		}

		var host models.User
		if err := tx.Select("id", "nickname").First(&host, hostID).Error; err != nil {
			return err
		}

		// A repeated invite replaces the earlier one.
		if err := tx.Where("user_id = ? AND lobby_id = ? AND type = ?", friendID, l.ID, models.NotificationLobbyInvite).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		invite = &models.Notification{
			UserID:  friendID,
			Type:    models.NotificationLobbyInvite,
			ActorID: &host.ID,
			LobbyID: &l.ID,
			Message: fmt.Sprintf("%s invited you to their mystery box lobby", host.Nickname),
		}
		return tx.Create(invite).Error
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// AcceptInvite consumes the invite and moves userID into its lobby. Any other
// membership is dropped and a lobby userID hosts is deleted, all atomically.
func (s *Service) AcceptInvite(ctx context.Context, userID, notificationID uint) (uint, error) {
	var lobbyID uint
	err := s.transact(ctx, func(tx *gorm.DB, out *outbox) error {
		var invite models.Notification
		err := tx.Where("id = ? AND user_id = ? AND type = ?", notificationID, userID, models.NotificationLobbyInvite).
			First(&invite).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && invite.LobbyID == nil) {
			return ErrInviteNotFound
		}
		if err != nil {
			return err
		}

		target, err := lockLobby(tx, *invite.LobbyID)
		if err != nil {
			return err
		}
		if target.HostID == userID {
			return ErrAlreadyMember
		}
		roll, err := activeRoll(tx, target)
		if err != nil {
			return err
		}
		if roll != nil {
			return ErrLobbyAlreadyRolled
		}

		current, err := membership(tx, userID)
		if err != nil {
			return err
		}
		if current != nil && current.LobbyID == target.ID {
			return ErrAlreadyMember
		}
		count, err := memberCount(tx, target.ID)
		if err != nil {
			return err
		}
		if count >= models.MaxLobbyMembers {
			return ErrLobbyFull
		}

		own, err := hostedLobby(tx, userID)
		if err != nil {
			return err
		}
		if own != nil {
			ownRoll, err := activeRoll(tx, own)
			if err != nil {
				return err
			}
			ownMembers, err := memberCount(tx, own.ID)
			if err != nil {
				return err
			}
			if ownRoll != nil && ownMembers == 0 {
				return ErrOwnActiveChallenge
			}
			if err := deleteLobby(tx, own.ID); err != nil {
				return fmt.Errorf("delete hosted lobby: %w", err)
			}
			out.close(own.ID)
		}

		if current != nil {
			if err := tx.Delete(&models.MysteryBoxLobbyMember{}, current.ID).Error; err != nil {
				return err
			}
			cancelled, err := cancelVote(tx, current.LobbyID)
			if err != nil {
				return err
			}
			if cancelled {
				out.add(current.LobbyID, EventVoteCancelled, nil)
			}
			out.add(current.LobbyID, EventMemberLeft, userPayload{UserID: userID})
		}

		if err := tx.Create(&models.MysteryBoxLobbyMember{
			LobbyID:  target.ID,
			UserID:   userID,
			JoinedAt: time.Now(),
		}).Error; err != nil {
			return err
		}
		if _, err := cancelVote(tx, target.ID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND lobby_id = ? AND type = ?", userID, target.ID, models.NotificationLobbyInvite).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		lobbyID = target.ID
		out.add(target.ID, EventMemberJoined, userPayload{UserID: userID})
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Printf("user %d joined mystery box lobby %d", userID, lobbyID)
	return lobbyID, nil
}

// DeclineInvite deletes the invite.
func (s *Service) DeclineInvite(ctx context.Context, userID, notificationID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND type = ?", notificationID, userID, models.NotificationLobbyInvite).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInviteNotFound
	}
	return nil
}

// Kick removes memberID from the lobby hostID hosts.
func (s *Service) Kick(ctx context.Context, hostID, memberID uint) error {
	if hostID == memberID {
		return ErrCannotKickSelf
	}
	return s.transact(ctx, func(tx *gorm.DB, out *outbox) error {
		l, err := requireHostLobby(tx, hostID)
		if err != nil {
			return err
		}
		res := tx.Where("lobby_id = ? AND user_id = ?", l.ID, memberID).Delete(&models.MysteryBoxLobbyMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		cancelled, err := cancelVote(tx, l.ID)
		if err != nil {
			return err
		}
		if cancelled {
			out.add(l.ID, EventVoteCancelled, nil)
		}
		out.add(l.ID, EventMemberKicked, userPayload{UserID: memberID})
		return nil
	})
}

// Leave takes userID out of their lobby. A host leaving deletes the lobby.
func (s *Service) Leave(ctx context.Context, userID uint) error {
	return s.transact(ctx, func(tx *gorm.DB, out *outbox) error {
		m, err := membership(tx, userID)
		if err != nil {
			return err
		}
		if m != nil {
			if _, err := lockLobby(tx, m.LobbyID); err != nil {
				return err
			}
			if err := tx.Delete(&models.MysteryBoxLobbyMember{}, m.ID).Error; err != nil {
				return err
			}
			cancelled, err := cancelVote(tx, m.LobbyID)
			if err != nil {
				return err
			}
			if cancelled {
				out.add(m.LobbyID, EventVoteCancelled, nil)
			}
			out.add(m.LobbyID, EventMemberLeft, userPayload{UserID: userID})
			return nil
		}

		own, err := hostedLobby(tx, userID)
		if err != nil {
			return err
		}
		if own == nil {
			return ErrNotInLobby
		}
		if err := deleteLobby(tx, own.ID); err != nil {
			return err
		}
		out.close(own.ID)
		return nil
	})
}

// Lobby loads lobbyID.
func (s *Service) Lobby(ctx context.Context, lobbyID uint) (*Lobby, error) {
	return loadLobby(s.db.WithContext(ctx), lobbyID)
}
