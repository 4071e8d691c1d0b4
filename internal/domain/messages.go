package domain

type MessageKey string

const (
	MsgSelfTeleport            MessageKey = "self-teleport"
	MsgCooldownActive          MessageKey = "cooldown-active"
	MsgAlreadySentRequest      MessageKey = "already-sent-request"
	MsgRecipientBusy           MessageKey = "recipient-busy"
	MsgRequestSent             MessageKey = "request-sent"
	MsgRequestReceived         MessageKey = "request-received"
	MsgRequestSentExpired      MessageKey = "request-sent-expired"
	MsgRequestReceivedExpired  MessageKey = "request-received-expired"
	MsgNoPendingRequests       MessageKey = "no-pending-requests"
	MsgPlayerOffline           MessageKey = "player-offline"
	MsgPlayerNotFound          MessageKey = "player-not-found"
	MsgRequestReceivedAccepted MessageKey = "request-received-accepted"
	MsgRequestSentAccepted     MessageKey = "request-sent-accepted"
	MsgRequestReceivedRejected MessageKey = "request-received-rejected"
	MsgRequestSentRejected     MessageKey = "request-sent-rejected"
	MsgTeleportCountdown       MessageKey = "teleport-countdown-message"
	MsgTeleportSuccess         MessageKey = "teleport-success-message"
	MsgClickAccept             MessageKey = "click-accept"
	MsgClickReject             MessageKey = "click-reject"
	MsgHoverAccept             MessageKey = "hover-accept"
	MsgHoverReject             MessageKey = "hover-reject"
)

// Template variables.
const (
	VarPlayer = "player"
	VarTime   = "time"
)

func DefaultMessages() map[MessageKey]string {
	return map[MessageKey]string{
		MsgSelfTeleport:            "&cYou cannot send a teleport request to yourself.",
		MsgCooldownActive:          "&cPlease wait &e{time}&c seconds before sending another request.",
		MsgAlreadySentRequest:      "&cYou already sent a teleport request to &e{player}&c.",
		MsgRecipientBusy:           "&e{player}&c already has a pending teleport request.",
		MsgRequestSent:             "&aTeleport request sent to &e{player}&a.",
		MsgRequestReceived:         "&e{player}&a wants to teleport to you.",
		MsgRequestSentExpired:      "&7Your teleport request to &e{player}&7 has expired.",
		MsgRequestReceivedExpired:  "&7The teleport request from &e{player}&7 has expired.",
		MsgNoPendingRequests:       "&cYou have no pending teleport requests.",
		MsgPlayerOffline:           "&c{player} is no longer online.",
		MsgPlayerNotFound:          "&cPlayer &e{player}&c was not found or is offline.",
		MsgRequestReceivedAccepted: "&aYou accepted the teleport request from &e{player}&a.",
		MsgRequestSentAccepted:     "&e{player}&a accepted your teleport request.",
		MsgRequestReceivedRejected: "&7You rejected the teleport request from &e{player}&7.",
		MsgRequestSentRejected:     "&e{player}&c rejected your teleport request.",
		MsgTeleportCountdown:       "&eTeleporting in &f{time}&e...",
		MsgTeleportSuccess:         "&aTeleported!",
		MsgClickAccept:             "&a&l[Accept]",
		MsgClickReject:             "&c&l[Reject]",
		MsgHoverAccept:             "&aClick to accept the teleport request",
		MsgHoverReject:             "&cClick to reject the teleport request",
	}
}

type Notification struct {
	Key  MessageKey
	Vars map[string]string
	// Prompt asks the notifier to attach accept/reject affordances.
	Prompt bool
}

func NewNotification(key MessageKey, kv ...string) Notification {
	n := Notification{Key: key}
	if len(kv) == 0 {
		return n
	}

	n.Vars = make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		n.Vars[kv[i]] = kv[i+1]
	}
	return n
}
