package service

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/templui/blogfeed/internal/model"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description,omitempty"`
	Author      string `xml:"author,omitempty"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// FeedService renders the visible feed as RSS 2.0.
type FeedService struct {
	blogService *BlogService
	baseURL     string
	title       string
	description string
	limit       int
}

func NewFeedService(blogService *BlogService, baseURL, title, description string) *FeedService {
	return &FeedService{
		blogService: blogService,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		title:       title,
		description: description,
		limit:       20,
	}
}

func (s *FeedService) GenerateFeed(rc model.RenderContext) ([]byte, error) {
	posts, err := s.blogService.Posts(rc)
	if err != nil {
		return nil, err
	}
	if len(posts) > s.limit {
		posts = posts[:s.limit]
	}

	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := s.baseURL + model.PostPath(p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Excerpt,
			Author:      p.Author,
			PubDate:     p.Date.Format(time.RFC1123Z),
			GUID:        link,
		})
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       s.title,
			Link:        s.baseURL + "/",
			Description: s.description,
			Items:       items,
		},
	}
	if len(posts) > 0 {
		feed.Channel.LastBuildDate = posts[0].Date.Format(time.RFC1123Z)
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, err
	}
	return []byte(xml.Header + string(output)), nil
}
