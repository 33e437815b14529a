package bot

import (
	"github.com/mymmrac/telego"
)

// ContentKind enumerates the content a message envelope can carry. The
// platform populates at most one content field per message.
type ContentKind int

const (
	KindUnknown ContentKind = iota
	KindSticker
	KindPhoto
	KindVideo
	KindAnimation
	KindAudio
	KindVoice
	KindVideoNote
	KindDocument
	KindLocation
	KindVenue
	KindContact
	KindPoll
	KindDice
	KindMemberJoined
	KindMemberLeft
	KindTitleChanged
	KindPhotoChanged
	KindPhotoDeleted
	KindGroupCreated
	KindSupergroupCreated
	KindChannelCreated
	KindMigratedTo
	KindMigratedFrom
	KindPinned
	KindText
)

// Classify returns the first populated content kind. The fields are mutually
// exclusive by platform contract, so the test order only matters for reading.
func Classify(m *telego.Message) ContentKind {
	switch {
	case m.Sticker != nil:
		return KindSticker
	case len(m.Photo) > 0:
		return KindPhoto
	case m.Video != nil:
		return KindVideo
	case m.Animation != nil:
		return KindAnimation
	case m.Audio != nil:
		return KindAudio
	case m.Voice != nil:
		return KindVoice
	case m.VideoNote != nil:
		return KindVideoNote
	case m.Document != nil:
		return KindDocument
	case m.Location != nil:
		return KindLocation
	case m.Venue != nil:
		return KindVenue
	case m.Contact != nil:
		return KindContact
	case m.Poll != nil:
		return KindPoll
	case m.Dice != nil:
		return KindDice
	case len(m.NewChatMembers) > 0:
		return KindMemberJoined
	case m.LeftChatMember != nil:
		return KindMemberLeft
	case m.NewChatTitle != "":
		return KindTitleChanged
	case len(m.NewChatPhoto) > 0:
		return KindPhotoChanged
	case m.DeleteChatPhoto:
		return KindPhotoDeleted
	case m.GroupChatCreated:
		return KindGroupCreated
	case m.SupergroupChatCreated:
		return KindSupergroupCreated
	case m.ChannelChatCreated:
		return KindChannelCreated
	case m.MigrateToChatID != 0:
		return KindMigratedTo
	case m.MigrateFromChatID != 0:
		return KindMigratedFrom
	case m.PinnedMessage != nil:
		return KindPinned
	case m.Text != "":
		return KindText
	default:
		return KindUnknown
	}
}
