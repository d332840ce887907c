package httpx

import (
	"net/http"
)

// BoardHandlers serves the community-board API endpoints. The data is
// static placeholder content; these endpoints exist so the application has
// protected API surface behind the gate.
type BoardHandlers struct{}

type adEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
}

type forumThread struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Replies int    `json:"replies"`
}

type rideOffer struct {
	ID    string `json:"id"`
	From  string `json:"from"`
	To    string `json:"to"`
	Seats int    `json:"seats"`
}

// Ads handles GET /api/ads.
func (BoardHandlers) Ads(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"ads": []adEntry{
			{ID: "ad-1", Title: "Garden tools, barely used", Price: "25.00"},
			{ID: "ad-2", Title: "Kids bicycle, 20 inch", Price: "40.00"},
			{ID: "ad-3", Title: "Bookshelf, oak", Price: "15.00"},
		},
	})
}

// Forum handles GET /api/forum.
func (BoardHandlers) Forum(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"threads": []forumThread{
			{ID: "t-1", Title: "Street festival planning", Replies: 12},
			{ID: "t-2", Title: "Lost cat near the park", Replies: 4},
			{ID: "t-3", Title: "Recommendations for a plumber?", Replies: 7},
		},
	})
}

// Rides handles GET /api/rides.
func (BoardHandlers) Rides(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"rides": []rideOffer{
			{ID: "r-1", From: "Old Town", To: "Central Station", Seats: 3},
			{ID: "r-2", From: "Riverside", To: "University", Seats: 1},
		},
	})
}
