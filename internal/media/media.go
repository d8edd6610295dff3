package media

import "github.com/packforge/packforge/pkg/util"

// Kind is the classified type of a source media file.
type Kind string

const (
	KindImage   Kind = "image"
	KindLoop    Kind = "gif"
	KindVideo   Kind = "video"
	KindUnknown Kind = "unknown"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".heic": true,
	".tiff": true,
	".bmp":  true,
}

var videoExts = map[string]bool{
	".mp4": true,
	".mov": true,
	".m4v": true,
	".avi": true,
	".mkv": true,
}

// Classify maps a file path to a media kind by its lowercased extension.
// No content sniffing is performed.
func Classify(path string) Kind {
	ext := util.Extension(path)
	switch {
	case imageExts[ext]:
		return KindImage
	case ext == ".gif":
		return KindLoop
	case videoExts[ext]:
		return KindVideo
	default:
		return KindUnknown
	}
}

// Supported reports whether the extension belongs to any known kind.
func Supported(path string) bool {
	return Classify(path) != KindUnknown
}
