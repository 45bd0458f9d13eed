package constants

type Platform string

const (
	PlatformTikTok      Platform = "tiktok"
	PlatformInstagram   Platform = "instagram"
	PlatformFacebook    Platform = "facebook"
	PlatformReddit      Platform = "reddit"
	PlatformX           Platform = "x"
	PlatformYouTube     Platform = "youtube"
	PlatformMedium      Platform = "medium"
	PlatformSubstack    Platform = "substack"
	PlatformThreads     Platform = "threads"
	PlatformBluesky     Platform = "bluesky"
	PlatformQuora       Platform = "quora"
	PlatformMastodon    Platform = "mastodon"
	PlatformProductHunt Platform = "producthunt"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{
	PlatformTikTok,
	PlatformInstagram,
	PlatformFacebook,
	PlatformReddit,
	PlatformX,
	PlatformYouTube,
	PlatformMedium,
	PlatformSubstack,
	PlatformThreads,
	PlatformBluesky,
	PlatformQuora,
	PlatformMastodon,
	PlatformProductHunt,
}

func (p Platform) IsValid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

type ActionType string

const (
	ActionFollow    ActionType = "follow"
	ActionSubscribe ActionType = "subscribe"
	ActionLike      ActionType = "like"
	ActionComment   ActionType = "comment"
)

func (a ActionType) IsValid() bool {
	switch a {
	case ActionFollow, ActionSubscribe, ActionLike, ActionComment:
		return true
	}
	return false
}
