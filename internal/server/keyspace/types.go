package keyspace

func set(exts ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		m[e] = struct{}{}
	}
	return m
}

var (
	videoExts       = set(".mp4", ".webm", ".ogg", ".mov", ".avi", ".mkv", ".m4v", ".3gp")
	imageExts       = set(".jpg", ".jpeg", ".png", ".webp", ".bmp", ".tiff", ".gif")
	documentExts    = set(".pdf", ".doc", ".docx", ".txt", ".xlsx", ".xls", ".ppt", ".pptx")
	audioExts       = set(".mp3", ".wav", ".aac", ".flac")
	codeExts        = set(".js", ".jsx", ".ts", ".tsx", ".py", ".java", ".c", ".cpp", ".html", ".css", ".json", ".xml")
	archiveExts     = set(".zip", ".rar", ".7z", ".tar", ".gz")
	spreadsheetExts = set(".xls", ".xlsx", ".csv")

	// preview classes
	urlPreviewExts  = set(".jpg", ".jpeg", ".png", ".webp", ".gif", ".svg", ".bmp", ".tiff", ".pdf", ".html", ".htm")
	textPreviewExts = set(".txt", ".csv", ".md", ".log")
)

var mimeTypes = map[string]string{
	".mp4": "video/mp4", ".webm": "video/webm", ".ogg": "video/ogg", ".mov": "video/quicktime",
	".avi": "video/x-msvideo", ".mkv": "video/x-matroska", ".m4v": "video/x-m4v", ".3gp": "video/3gpp",
	".jpg": "image/jpeg", ".jpeg": "image/jpeg", ".png": "image/png", ".webp": "image/webp",
	".gif": "image/gif", ".bmp": "image/bmp", ".tiff": "image/tiff", ".svg": "image/svg+xml",
	".pdf": "application/pdf", ".txt": "text/plain", ".html": "text/html", ".htm": "text/html",
	".css": "text/css", ".js": "application/javascript", ".json": "application/json", ".xml": "application/xml",
	".mp3": "audio/mpeg", ".wav": "audio/wav", ".aac": "audio/aac", ".flac": "audio/flac",
	".zip": "application/zip", ".rar": "application/x-rar-compressed", ".7z": "application/x-7z-compressed",
	".tar": "application/x-tar", ".gz": "application/gzip",
	".xls": "application/vnd.ms-excel", ".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv": "text/csv", ".py": "text/x-python", ".java": "text/x-java-source", ".c": "text/x-c",
	".cpp": "text/x-c++src", ".ts": "application/typescript", ".tsx": "application/typescript", ".jsx": "text/jsx",
	".md": "text/markdown", ".log": "text/plain",
}

// DefaultContentType is served when nothing better is known.
const DefaultContentType = "application/octet-stream"

func has(m map[string]struct{}, name string) bool {
	_, ok := m[Ext(name)]
	return ok
}

func IsVideo(name string) bool { return has(videoExts, name) }
func IsImage(name string) bool { return has(imageExts, name) }
func IsDocument(name string) bool { return has(documentExts, name) }
func IsAudio(name string) bool { return has(audioExts, name) }
func IsCode(name string) bool { return has(codeExts, name) }
func IsArchive(name string) bool { return has(archiveExts, name) }
func IsSpreadsheet(name string) bool { return has(spreadsheetExts, name) }

// CanCompress reports whether a compressor exists for name.
func CanCompress(name string) bool { return IsVideo(name) || IsImage(name) }

// Flags are the per-file type annotations served to clients.
type Flags struct {
	IsVideo       bool `json:"isVideo"`
	IsImage       bool `json:"isImage"`
	IsDocument    bool `json:"isDocument"`
	IsAudio       bool `json:"isAudio"`
	IsCode        bool `json:"isCode"`
	IsArchive     bool `json:"isArchive"`
	IsSpreadsheet bool `json:"isSpreadsheet"`
}

// FlagsFor derives Flags from the extension of name.
func FlagsFor(name string) Flags {
	return Flags{
		IsVideo:       IsVideo(name),
		IsImage:       IsImage(name),
		IsDocument:    IsDocument(name),
		IsAudio:       IsAudio(name),
		IsCode:        IsCode(name),
		IsArchive:     IsArchive(name),
		IsSpreadsheet: IsSpreadsheet(name),
	}
}

// PreviewKind says how a file can be previewed.
type PreviewKind int

const (
	PreviewNone PreviewKind = iota
	PreviewURL
	PreviewText
)

// PreviewKindOf classifies name. Videos and renderable documents are served
// by URL, source and plain text by snippet.
func PreviewKindOf(name string) PreviewKind {
	switch {
	case IsVideo(name) || has(urlPreviewExts, name):
		return PreviewURL
	case IsCode(name) || has(textPreviewExts, name):
		return PreviewText
	default:
		return PreviewNone
	}
}

// MimeType looks up the content type of name by extension.
func MimeType(name string) string {
	if t, ok := mimeTypes[Ext(name)]; ok {
		return t
	}
	return DefaultContentType
}
