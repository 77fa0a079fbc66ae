package mysterybox

import (
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roundtracker/backend/internal/models"
)

// State is the lobby's position in the roll lifecycle.
type State string

const (
	StateEmpty   State = "EMPTY"
	StateRolling State = "ROLLING"
)

// Lobby is a loaded lobby with its participants, active roll and vote.
type Lobby struct {
	ID      uint
	HostID  uint
	Host    models.User
	Members []models.MysteryBoxLobbyMember
	Roll    *models.MysteryBoxRoll
	Vote    *models.MysteryBoxDiscardVote
}

// State reports ROLLING while an incomplete roll is attached.
func (l *Lobby) State() State {
	if l.Roll != nil && !l.Roll.CompletedByHost {
		return StateRolling
	}
	return StateEmpty
}

// Participants returns the host followed by the members in join order.
func (l *Lobby) Participants() []uint {
	ids := []uint{l.HostID}
	for _, m := range l.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

func loadLobby(tx *gorm.DB, lobbyID uint) (*Lobby, error) {
	var row models.MysteryBoxLobby
	err := tx.Preload("Host").
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at, id") }).
		Preload("Members.User").
		Preload("CurrentRoll.Map").
		First(&row, lobbyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLobbyNotFound
	}
	if err != nil {
		return nil, err
	}

	l := &Lobby{ID: row.ID, HostID: row.HostID, Host: row.Host, Members: row.Members, Roll: row.CurrentRoll}

	var vote models.MysteryBoxDiscardVote
	err = tx.Where("lobby_id = ? AND status = ?", lobbyID, VotePending).First(&vote).Error
	switch {
	case err == nil:
		l.Vote = &vote
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return l, nil
}

// lockLobby reloads the lobby row with a row lock for the rest of tx.
func lockLobby(tx *gorm.DB, lobbyID uint) (*models.MysteryBoxLobby, error) {
	var l models.MysteryBoxLobby
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&l, lobbyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLobbyNotFound
	}
	return &l, err
}

// hostedLobby returns the lobby userID hosts, locked, or nil.
func hostedLobby(tx *gorm.DB, userID uint) (*models.MysteryBoxLobby, error) {
	var l models.MysteryBoxLobby
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("host_id = ?", userID).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// membership returns userID's membership row, or nil.
func membership(tx *gorm.DB, userID uint) (*models.MysteryBoxLobbyMember, error) {
	var m models.MysteryBoxLobbyMember
	err := tx.Where("user_id = ?", userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// requireHostLobby returns the lobby userID hosts. A member of someone else's
// lobby gets ErrHostOnly; a user in no lobby gets ErrNotInLobby.
func requireHostLobby(tx *gorm.DB, userID uint) (*models.MysteryBoxLobby, error) {
	l, err := hostedLobby(tx, userID)
	if err != nil || l != nil {
		return l, err
	}
	m, err := membership(tx, userID)
	if err != nil {
		return nil, err
	}
	if m != nil {
		return nil, ErrHostOnly
	}
	return nil, ErrNotInLobby
}

// ensureHostLobby is requireHostLobby, but creates the lobby for a user who is
// in none.
func ensureHostLobby(tx *gorm.DB, userID uint) (*models.MysteryBoxLobby, error) {
	l, err := requireHostLobby(tx, userID)
	if !errors.Is(err, ErrNotInLobby) {
		return l, err
	}
	if err := requireUser(tx, userID); err != nil {
		return nil, err
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.MysteryBoxLobby{HostID: userID}).Error; err != nil {
		return nil, err
	}
	return hostedLobby(tx, userID)
}

// currentLobbyID returns the lobby userID takes part in, as host or member.
func currentLobbyID(tx *gorm.DB, userID uint) (uint, error) {
	m, err := membership(tx, userID)
	if err != nil {
		return 0, err
	}
	if m != nil {
		return m.LobbyID, nil
	}
	var l models.MysteryBoxLobby
	err = tx.Select("id").Where("host_id = ?", userID).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotInLobby
	}
	return l.ID, err
}

// activeRoll returns the lobby's incomplete roll, or nil.
func activeRoll(tx *gorm.DB, l *models.MysteryBoxLobby) (*models.MysteryBoxRoll, error) {
	if l.CurrentRollID == nil {
		return nil, nil
	}
	var r models.MysteryBoxRoll
	err := tx.First(&r, *l.CurrentRollID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil || r.CompletedByHost {
		return nil, err
	}
	return &r, nil
}

func participants(tx *gorm.DB, l *models.MysteryBoxLobby) ([]uint, error) {
	var ids []uint
	if err := tx.Model(&models.MysteryBoxLobbyMember{}).Where("lobby_id = ?", l.ID).Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return append([]uint{l.HostID}, ids...), nil
}

func memberCount(tx *gorm.DB, lobbyID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.MysteryBoxLobbyMember{}).Where("lobby_id = ?", lobbyID).Count(&n).Error
	return n, err
}

func requireUser(tx *gorm.DB, userID uint) error {
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// cancelVote deletes any vote on lobbyID, resolved ones included, and reports
// whether one was still pending. Membership changes call it so a vote never
// resolves against a voter set that no longer matches the lobby.
func cancelVote(tx *gorm.DB, lobbyID uint) (bool, error) {
	var pending int64
	if err := tx.Model(&models.MysteryBoxDiscardVote{}).
		Where("lobby_id = ? AND status = ?", lobbyID, VotePending).
		Count(&pending).Error; err != nil {
		return false, err
	}
	if err := tx.Where("lobby_id = ?", lobbyID).Delete(&models.MysteryBoxDiscardVote{}).Error; err != nil {
		return false, err
	}
	return pending > 0, nil
}

// deleteLobby removes a lobby and everything hanging off it. The order
// respects the lobby → roll reference.
func deleteLobby(tx *gorm.DB, lobbyID uint) error {
	if err := tx.Where("lobby_id = ?", lobbyID).Delete(&models.MysteryBoxLobbyMember{}).Error; err != nil {
		return err
	}
	if err := tx.Where("lobby_id = ?", lobbyID).Delete(&models.MysteryBoxDiscardVote{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.MysteryBoxLobby{}).Where("id = ?", lobbyID).Update("current_roll_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Where("lobby_id = ?", lobbyID).Delete(&models.MysteryBoxRoll{}).Error; err != nil {
		return err
	}
	if err := tx.Where("lobby_id = ? AND type = ?", lobbyID, models.NotificationLobbyInvite).Delete(&models.Notification{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.MysteryBoxLobby{}, lobbyID).Error
}
