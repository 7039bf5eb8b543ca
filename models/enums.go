package models

// Reading statuses a library entry can be in.
const (
	StatusWantToRead       = "Want to Read"
	StatusCurrentlyReading = "Currently Reading"
	StatusCompleted        = "Completed"
)

// Book formats accepted for reviews and library entries.
const (
	FormatPaperback = "paperback"
	FormatHardcover = "hardcover"
	FormatKindle    = "kindle"
	FormatEbook     = "ebook"
	FormatAudiobook = "audiobook"
)

// Statuses lists every valid reading status.
var Statuses = []string{StatusWantToRead, StatusCurrentlyReading, StatusCompleted}

// Formats lists every valid book format.
var Formats = []string{FormatPaperback, FormatHardcover, FormatKindle, FormatEbook, FormatAudiobook}

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ValidFormat reports whether s is a member of the format enumeration.
func ValidFormat(s string) bool {
	for _, v := range Formats {
		if s == v {
			return true
		}
	}
	return false
}
