package record

import (
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
	KindAudio MediaKind = "audio"
	KindFile  MediaKind = "file"
)

// KindOf maps a MIME type to a media kind by fixed prefix.
func KindOf(mimeType string) MediaKind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return KindAudio
	default:
		return KindFile
	}
}

func (MediaKind) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type: "string",
		Enum: []any{
			string(KindImage),
			string(KindVideo),
			string(KindAudio),
			string(KindFile),
		},
		Description: "Вид медиафайла образца",
		Examples:    []any{KindImage},
	}
}

// Validate реализует интерфейс huma.Validatable.
func (k MediaKind) Validate() error {
	switch k {
	case KindImage, KindVideo, KindAudio, KindFile:
		return nil
	}
	return fmt.Errorf("неверный вид медиафайла: %s", k)
}

// String возвращает строковое представление вида.
func (k MediaKind) String() string {
	return string(k)
}

// Icon возвращает значок для табличного вывода.
func (k MediaKind) Icon() string {
	switch k {
	case KindImage:
		return "🖼"
	case KindVideo:
		return "🎬"
	case KindAudio:
		return "🎵"
	default:
		return "📎"
	}
}
