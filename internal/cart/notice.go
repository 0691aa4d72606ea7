package cart

import "fmt"

type NoticeKind string

const (
	NoticeAdded   NoticeKind = "added"
	NoticeUpdated NoticeKind = "updated"
	NoticeRemoved NoticeKind = "removed"
	NoticeCleared NoticeKind = "cleared"
)

// Notice describes one mutation for user-facing toasts.
type Notice struct {
	Kind     NoticeKind
	ItemID   string
	Name     string
	Quantity int
	Title    string
	Message  string
}

func addedNotice(item Item, added int) Notice {
	return Notice{
		Kind:     NoticeAdded,
		ItemID:   item.ID,
		Name:     item.Name,
		Quantity: item.Quantity,
		Title:    "✓ Added to Quote",
		Message:  fmt.Sprintf("%s (×%d) added successfully", item.Name, added),
	}
}

func updatedNotice(item Item) Notice {
	return Notice{
		Kind:     NoticeUpdated,
		ItemID:   item.ID,
		Name:     item.Name,
		Quantity: item.Quantity,
		Title:    "✓ Cart Updated",
		Message:  fmt.Sprintf("%s quantity updated to %d", item.Name, item.Quantity),
	}
}

func removedNotice(item Item) Notice {
	return Notice{
		Kind:    NoticeRemoved,
		ItemID:  item.ID,
		Name:    item.Name,
		Title:   "Removed from cart",
		Message: "Item removed from your quote",
	}
}

func clearedNotice() Notice {
	return Notice{
		Kind:    NoticeCleared,
		Title:   "Cart cleared",
		Message: "All items removed from your quote",
	}
}
