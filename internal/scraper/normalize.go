package scraper

import "strings"

// The actor output is loosely typed and varies between actor versions, so
// every field is read through ordered fallback keys, mirroring what the
// provider has actually been observed to return.

// normalizeProfile picks the item matching the requested username (or the
// first item carrying aggregated media) and maps it to a Profile. Returns
// nil when the dataset holds nothing usable.
func normalizeProfile(items []map[string]interface{}, username string) *Profile {
	if len(items) == 0 {
		return nil
	}

	chosen := items[0]
	for _, item := range items {
		uname := stringField(item, "username")
		if uname == "" {
			if user, ok := item["user"].(map[string]interface{}); ok {
				uname = stringField(user, "username")
			}
		}
		if strings.EqualFold(uname, username) {
			chosen = item
			break
		}
		if _, ok := item["latestPosts"]; ok {
			chosen = item
			break
		}
		if _, ok := item["latestReels"]; ok {
			chosen = item
			break
		}
	}

	profile := &Profile{
		Username:          username,
		FullName:          stringField(chosen, "fullName", "full_name"),
		ProfilePictureURL: stringField(chosen, "profilePicUrl", "profilePicture", "profile_pic_url"),
		Followers:         intField(chosen, "followersCount", "followers"),
		Following:         intField(chosen, "followsCount", "following"),
		PostsCount:        intField(chosen, "postsCount", "posts_count"),
	}
	if profile.FullName == "" {
		profile.FullName = username
	}

	for _, item := range listField(chosen, "latestPosts", "latest_posts") {
		profile.LatestPosts = append(profile.LatestPosts, normalizeMediaItem(item))
	}
	for _, item := range listField(chosen, "latestReels", "latest_reels", "latestReelsPosts", "reels") {
		reel := normalizeMediaItem(item)
		reel.IsVideo = true
		profile.LatestReels = append(profile.LatestReels, reel)
	}
	return profile
}

// normalizeMediaItem maps one dataset item to a MediaItem.
func normalizeMediaItem(item map[string]interface{}) MediaItem {
	media := MediaItem{
		ImageURL:     stringField(item, "displayUrl", "display_url", "url", "imageUrl", "image_url"),
		ThumbnailURL: stringField(item, "thumbnailUrl", "thumbnail_url", "displayUrl", "display_url"),
		Caption:      stringField(item, "caption", "description", "title"),
		Likes:        intField(item, "likesCount", "likes"),
		Comments:     intField(item, "commentsCount", "comments"),
		Views:        intField(item, "playCount", "viewsCount", "views"),
		Tags:         stringListField(item, "tags", "keywords"),
	}

	if boolField(item, "isVideo") {
		media.IsVideo = true
	}
	if t := stringField(item, "type", "mediaType"); strings.EqualFold(t, "video") {
		media.IsVideo = true
	}
	if stringField(item, "videoUrl", "video_url") != "" {
		media.IsVideo = true
	}
	return media
}

func stringField(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func intField(m map[string]interface{}, keys ...string) int64 {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return int64(v)
		case int64:
			return v
		case int:
			return int64(v)
		}
	}
	return 0
}

func boolField(m map[string]interface{}, key string) bool {
	v, ok := m[key].(bool)
	return ok && v
}

func listField(m map[string]interface{}, keys ...string) []map[string]interface{} {
	for _, key := range keys {
		raw, ok := m[key].([]interface{})
		if !ok {
			continue
		}
		items := make([]map[string]interface{}, 0, len(raw))
		for _, entry := range raw {
			if item, ok := entry.(map[string]interface{}); ok {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

func stringListField(m map[string]interface{}, keys ...string) []string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case []interface{}:
			out := make([]string, 0, len(v))
			for _, entry := range v {
				if s, ok := entry.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if v != "" {
				return strings.Split(v, ",")
			}
		}
	}
	return nil
}
