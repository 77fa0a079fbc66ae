package mysterybox

import "roundtracker/backend/internal/apperr"

var (
	ErrUserNotFound   = apperr.NotFound("USER_NOT_FOUND", "User not found")
	ErrLobbyNotFound  = apperr.NotFound("LOBBY_NOT_FOUND", "That lobby no longer exists")
	ErrInviteNotFound = apperr.NotFound("INVITE_NOT_FOUND", "Invite not found")
	ErrNotInLobby     = apperr.NotFound("NOT_IN_LOBBY", "You are not in a mystery box lobby")
	ErrMemberNotFound = apperr.NotFound("MEMBER_NOT_FOUND", "That player is not in your lobby")

	ErrHostOnly   = apperr.Forbidden("HOST_ONLY", "Only the lobby host can do that")
	ErrNotFriends = apperr.Forbidden("NOT_FRIENDS", "You can only invite friends")
	ErrNotAVoter  = apperr.Forbidden("NOT_A_VOTER", "You were not in the lobby when this vote started")

	ErrInvitesLocked      = apperr.Conflict("INVITES_LOCKED", "Invites are locked while a challenge is active. Log or discard it first.")
	ErrLobbyFull          = apperr.Conflict("LOBBY_FULL", "The lobby is full")
	ErrAlreadyMember      = apperr.Conflict("ALREADY_MEMBER", "That player is already in the lobby")
	ErrLobbyAlreadyRolled = apperr.Conflict("LOBBY_ALREADY_ROLLED", "This lobby has already rolled a challenge. Ask the host to discard it, then accept again.")
	ErrOwnActiveChallenge = apperr.Conflict("OWN_ACTIVE_CHALLENGE", "You have an active challenge in your own lobby. Log or discard it before joining another.")
	ErrCannotKickSelf     = apperr.Conflict("CANNOT_KICK_SELF", "You cannot kick yourself. Leave the lobby instead.")
	ErrRollActive         = apperr.Conflict("ROLL_ACTIVE", "A challenge is already active")
	ErrNoActiveRoll       = apperr.Conflict("NO_ACTIVE_ROLL", "There is no active challenge")
	ErrVoteInProgress     = apperr.Conflict("VOTE_IN_PROGRESS", "A vote is already in progress")
	ErrNoVoteInProgress   = apperr.Conflict("NO_VOTE_IN_PROGRESS", "There is no vote in progress")
	ErrNoTokens           = apperr.Conflict("NO_TOKENS", "You have no mystery box tokens left")
	ErrNoMaps             = apperr.Conflict("NO_MAPS", "There are no maps to roll")

	ErrCannotInviteSelf = apperr.Invalid("CANNOT_INVITE_SELF", "You cannot invite yourself")
	ErrInvalidIntent    = apperr.Invalid("INVALID_INTENT", "Intent must be discard or reroll")
	ErrInvalidBallot    = apperr.Invalid("INVALID_BALLOT", "Choice must be YES or NO")
)
