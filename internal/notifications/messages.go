package notifications

import "fmt"

const (
	maxMessageRunes = 255
	maxReasonRunes  = 100
)

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func FriendRequestMessage(senderName string) string {
	return fmt.Sprintf("%s sent you a friend request", senderName)
}

func FriendAcceptedMessage(accepterName string) string {
	return fmt.Sprintf("%s accepted your friend request", accepterName)
}

func FriendRemovedMessage(removerName string) string {
	return fmt.Sprintf("%s removed you from their friends list", removerName)
}

// PostRemovedMessage embeds at most the first 100 characters of reason.
func PostRemovedMessage(reason string) string {
	return "Your post was removed by a moderator: " + truncateRunes(reason, maxReasonRunes)
}

func MessageRemovedMessage(reason string) string {
	return "Your message was removed by a moderator: " + truncateRunes(reason, maxReasonRunes)
}

func AccountSuspendedMessage(reason string) string {
	return "Your account has been suspended: " + truncateRunes(reason, maxReasonRunes)
}

func AccountReinstatedMessage() string {
	return "Your account has been reinstated. Welcome back!"
}
