package model

// Page is a bounded view of the ordered, visible post feed.
type Page struct {
	Number     int
	Size       int
	TotalPosts int
	TotalPages int
	Posts      []*Post

	// Prev and Next are nil when there is no such page.
	Prev *int
	Next *int
}

func (p *Page) IsFirst() bool {
	return p.Prev == nil
}

func (p *Page) IsLast() bool {
	return p.Next == nil
}
