package entity

import "time"

// Notice targeting values.
const (
	NoticeTargetAll  = "all"
	NoticeTargetUser = "user"
)

// Notice is an operator announcement shown in the app's notice feed.
type Notice struct {
	ID       string    // Server-assigned notice identifier.
	Title    string    // Headline.
	BodyMD   string    // Markdown source of the body.
	BodyHTML string    // Server-rendered HTML of the body.
	Target   string    // NoticeTargetAll or NoticeTargetUser.
	StartAt  time.Time // Start of the publication window.
	EndAt    time.Time // End of the publication window.
}
