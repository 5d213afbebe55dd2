package media

import "fmt"

// Profile holds the per-platform encode settings.
type Profile struct {
	Width     int
	Height    int
	FrameRate int
	CRF       int
	Preset    string
}

// Size returns the profile resolution in ffmpeg WxH form.
func (p Profile) Size() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

var profiles = map[string]Profile{
	"tiktok":    {Width: 1080, Height: 1920, FrameRate: 30, CRF: 23, Preset: "fast"},
	"youtube":   {Width: 1920, Height: 1080, FrameRate: 30, CRF: 21, Preset: "medium"},
	"instagram": {Width: 1080, Height: 1080, FrameRate: 30, CRF: 23, Preset: "fast"},
	"facebook":  {Width: 1280, Height: 720, FrameRate: 30, CRF: 24, Preset: "fast"},
}

// ProfileFor returns the encode settings for a platform. Unknown
// platforms fall back to the youtube profile.
func ProfileFor(platform string) Profile {
	if p, ok := profiles[platform]; ok {
		return p
	}
	return profiles["youtube"]
}
