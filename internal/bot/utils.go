package bot

import (
	"fmt"

	"relaybot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func userFromTelegram(from *tgbotapi.User) *models.User {
	return &models.User{
		UserID:       from.ID,
		FirstName:    from.FirstName,
		LastName:     from.LastName,
		Username:     from.UserName,
		LanguageCode: from.LanguageCode,
		IsBot:        from.IsBot,
	}
}

// relayHeader identifies the sender of a forwarded message to the admin.
func relayHeader(from *tgbotapi.User) string {
	user := userFromTelegram(from)
	uname := ""
	if from.UserName != "" {
		uname = " @" + from.UserName
	}
	return fmt.Sprintf("From: %s%s\nID: %d", user.DisplayName(), uname, from.ID)
}

// fileRefFromMessage extracts attachment metadata, nil when the message
// carries no supported media. For photos Telegram sends several sizes; the
// last one is the largest.
func fileRefFromMessage(msg *tgbotapi.Message) *models.FileRef {
	ref := &models.FileRef{Caption: msg.Caption}

	switch {
	case msg.Document != nil:
		ref.Kind = models.FileKindDocument
		ref.FileID = msg.Document.FileID
		ref.UniqueID = msg.Document.FileUniqueID
	case len(msg.Photo) > 0:
		photo := msg.Photo[len(msg.Photo)-1]
		ref.Kind = models.FileKindPhoto
		ref.FileID = photo.FileID
		ref.UniqueID = photo.FileUniqueID
	case msg.Audio != nil:
		ref.Kind = models.FileKindAudio
		ref.FileID = msg.Audio.FileID
		ref.UniqueID = msg.Audio.FileUniqueID
	case msg.Video != nil:
		ref.Kind = models.FileKindVideo
		ref.FileID = msg.Video.FileID
		ref.UniqueID = msg.Video.FileUniqueID
	case msg.Voice != nil:
		ref.Kind = models.FileKindVoice
		ref.FileID = msg.Voice.FileID
		ref.UniqueID = msg.Voice.FileUniqueID
	default:
		return nil
	}

	return ref
}

// mediaCopy builds an outbound copy of the media in msg addressed to chatID,
// nil when msg has no supported media.
func mediaCopy(chatID int64, msg *tgbotapi.Message, caption string) tgbotapi.Chattable {
	switch {
	case msg.Document != nil:
		out := tgbotapi.NewDocument(chatID, tgbotapi.FileID(msg.Document.FileID))
		out.Caption = caption
		return out
	case len(msg.Photo) > 0:
		out := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(msg.Photo[len(msg.Photo)-1].FileID))
		out.Caption = caption
		return out
	case msg.Audio != nil:
		out := tgbotapi.NewAudio(chatID, tgbotapi.FileID(msg.Audio.FileID))
		out.Caption = caption
		return out
	case msg.Video != nil:
		out := tgbotapi.NewVideo(chatID, tgbotapi.FileID(msg.Video.FileID))
		out.Caption = caption
		return out
	case msg.Voice != nil:
		out := tgbotapi.NewVoice(chatID, tgbotapi.FileID(msg.Voice.FileID))
		out.Caption = caption
		return out
	}
	return nil
}

// fileRefChattable builds an outbound send for a saved file bookmark, nil for
// an unknown kind.
func fileRefChattable(chatID int64, ref *models.FileRef) tgbotapi.Chattable {
	switch ref.Kind {
	case models.FileKindDocument:
		out := tgbotapi.NewDocument(chatID, tgbotapi.FileID(ref.FileID))
		out.Caption = ref.Caption
		return out
	case models.FileKindPhoto:
		out := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(ref.FileID))
		out.Caption = ref.Caption
		return out
	case models.FileKindAudio:
		out := tgbotapi.NewAudio(chatID, tgbotapi.FileID(ref.FileID))
		out.Caption = ref.Caption
		return out
	case models.FileKindVideo:
		out := tgbotapi.NewVideo(chatID, tgbotapi.FileID(ref.FileID))
		out.Caption = ref.Caption
		return out
	case models.FileKindVoice:
		out := tgbotapi.NewVoice(chatID, tgbotapi.FileID(ref.FileID))
		out.Caption = ref.Caption
		return out
	}
	return nil
}
