package videos

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var ErrUnrecognizedURL = errors.New("unrecognized video url")

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// pathPrefixes on youtube.com hosts that are followed by the video id.
var pathPrefixes = []string{"/embed/", "/shorts/", "/v/", "/live/"}

// ExtractExternalID derives the YouTube video id from the URL shapes YouTube
// hands out: watch?v=, youtu.be/, embed, shorts, v and live paths.
func ExtractExternalID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrUnrecognizedURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrUnrecognizedURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrUnrecognizedURL
	}

	host := strings.ToLower(u.Hostname())
	for _, p := range []string{"www.", "m.", "music."} {
		host = strings.TrimPrefix(host, p)
	}

	var id string
	switch host {
	case "youtu.be":
		id = firstSegment(u.Path)
	case "youtube.com", "youtube-nocookie.com":
		if u.Path == "/watch" || u.Path == "/watch/" {
			id = u.Query().Get("v")
			break
		}
		for _, prefix := range pathPrefixes {
			if strings.HasPrefix(u.Path, prefix) {
				id = firstSegment(strings.TrimPrefix(u.Path, prefix))
				break
			}
		}
	default:
		return "", ErrUnrecognizedURL
	}

	if !validID.MatchString(id) {
		return "", ErrUnrecognizedURL
	}
	return id, nil
}

func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}
