package ytsearch

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

const initialDataMarker = "ytInitialData = "

type textRuns struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (t textRuns) String() string {
	var sb strings.Builder
	for _, run := range t.Runs {
		sb.WriteString(run.Text)
	}
	return sb.String()
}

type videoRenderer struct {
	VideoId   string   `json:"videoId"`
	Title     textRuns `json:"title"`
	OwnerText textRuns `json:"ownerText"`
	Thumbnail struct {
		Thumbnails []struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
	} `json:"thumbnail"`
	LengthText struct {
		SimpleText string `json:"simpleText"`
	} `json:"lengthText"`
}

type initialData struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []struct {
						ItemSectionRenderer struct {
							Contents []struct {
								VideoRenderer *videoRenderer `json:"videoRenderer"`
							} `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

func parseResultsPage(r io.Reader) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	raw := findInitialData(doc)
	if raw == "" {
		return nil, ErrInitialDataNotFound
	}

	var data initialData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("failed to decode initial data: %w", err)
	}

	var results []Result
	for _, section := range data.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents {
		for _, content := range section.ItemSectionRenderer.Contents {
			if content.VideoRenderer == nil || content.VideoRenderer.VideoId == "" {
				continue
			}

			results = append(results, content.VideoRenderer.toResult())
		}
	}

	return results, nil
}

func (v *videoRenderer) toResult() Result {
	thumbnailUrl := fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", v.VideoId)
	if thumbnails := v.Thumbnail.Thumbnails; len(thumbnails) > 0 {
		thumbnailUrl = thumbnails[len(thumbnails)-1].URL
	}

	return Result{
		VideoId:      v.VideoId,
		Title:        v.Title.String(),
		ThumbnailUrl: thumbnailUrl,
		Duration:     v.LengthText.SimpleText,
		AuthorName:   v.OwnerText.String(),
	}
}

// findInitialData returns the JSON object assigned to ytInitialData inside a
// script element, or an empty string.
func findInitialData(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "script" && n.FirstChild != nil {
		text := n.FirstChild.Data
		if i := strings.Index(text, initialDataMarker); i >= 0 {
			raw := strings.TrimSpace(text[i+len(initialDataMarker):])
			return strings.TrimSuffix(raw, ";")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if raw := findInitialData(c); raw != "" {
			return raw
		}
	}
	return ""
}
