package entity

// Player is a participant identity bound to at most one live room.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	RoomID string `json:"room_id,omitempty"`
}

func (that *Player) InRoom() bool {
	return that.RoomID != ""
}
