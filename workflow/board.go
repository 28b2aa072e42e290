package workflow

import (
	"time"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/models"
)

// DeadlineState colours a card by where "now" falls between pickup and deadline.
type DeadlineState string

const (
	DeadlineFresh      DeadlineState = "fresh"       // first three days after pickup
	DeadlineInProgress DeadlineState = "in_progress" // middle period
	DeadlineUrgent     DeadlineState = "urgent"      // last three days before the deadline, or past it
	DeadlineUnknown    DeadlineState = "unknown"     // pickup or deadline missing
)

const deadlineWindow = 3 * 24 * time.Hour

// DeadlineStateOf classifies an order's timeline at now.
func DeadlineStateOf(pickup, deadline, now time.Time) DeadlineState {
	if pickup.IsZero() || deadline.IsZero() {
		return DeadlineUnknown
	}
	if now.Sub(pickup) <= deadlineWindow {
		return DeadlineFresh
	}
	if deadline.Sub(now) <= deadlineWindow {
		return DeadlineUrgent
	}
	return DeadlineInProgress
}

// Card is a furniture item as shown on the board, with its order context.
type Card struct {
	models.FurnitureItem
	OrderTitle     string        `json:"order_title"`
	CustomerName   string        `json:"customer_name"`
	CustomerNumber string        `json:"customer_number"`
	PickupDate     time.Time     `json:"pickup_date"`
	Deadline       time.Time     `json:"deadline"`
	DeadlineState  DeadlineState `json:"deadline_state"`
}

// Column is one department lane of the board.
type Column struct {
	Department models.Department `json:"department"`
	Style      Style             `json:"style"`
	Cards      []Card            `json:"cards"`
}

// Board is the grouped dashboard view.
type Board struct {
	Columns []Column `json:"columns"`
	// Unmapped lists items whose stored department is not a known stage
	Unmapped []Card `json:"unmapped"`
}

// BuildBoard groups the furniture of active orders by department. Only the
// departments in visible get a column; pass nil to show every department.
// Unmapped items are reported on the full board only.
// Input order is preserved between cards of equal priority.
func BuildBoard(orders []models.Order, visible []models.Department, now time.Time) Board {
	full := visible == nil
	if full {
		visible = models.Departments()
	}

	show := make(map[models.Department]bool, len(visible))
	for _, d := range visible {
		show[d] = true
	}

	grouped := make(map[models.Department][]models.FurnitureItem)
	cardsByID := make(map[string]Card)
	board := Board{Columns: []Column{}, Unmapped: []Card{}}

	for i := range orders {
		order := &orders[i]
		if order.IsCompleted() {
			continue
		}
		for _, item := range order.Furniture {
			card := Card{
				FurnitureItem:  item,
				OrderTitle:     order.Title,
				CustomerName:   order.Customer.Name,
				CustomerNumber: order.Customer.Number,
				PickupDate:     order.PickupDate,
				Deadline:       order.Deadline,
				DeadlineState:  DeadlineStateOf(order.PickupDate, order.Deadline, now),
			}
			if !item.Department.Valid() {
				if full {
					board.Unmapped = append(board.Unmapped, card)
				}
				continue
			}
			if !show[item.Department] {
				continue
			}
			grouped[item.Department] = append(grouped[item.Department], item)
			cardsByID[item.ID] = card
		}
	}

	// keep pipeline order regardless of how visible was ordered
	for _, d := range models.Departments() {
		if !show[d] {
			continue
		}
		items := grouped[d]
		SortColumn(items)
		col := Column{Department: d, Style: departmentStyles[d], Cards: make([]Card, 0, len(items))}
		for _, item := range items {
			col.Cards = append(col.Cards, cardsByID[item.ID])
		}
		board.Columns = append(board.Columns, col)
	}

	return board
}
