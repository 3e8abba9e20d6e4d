package domain

// Queue is the ordered pending-playback list of a room together with the
// item that is currently playing. It is not safe for concurrent use; callers
// serialize access through the owning Room.
type Queue struct {
	items       []Item
	currentSong *Item
}

func (q *Queue) inRange(index int) bool {
	return index >= 0 && index < len(q.items)
}

func (q *Queue) Length() int {
	return len(q.items)
}

// Items returns a copy of the queue. The result is never nil.
func (q *Queue) Items() []Item {
	items := make([]Item, len(q.items))
	copy(items, q.items)
	return items
}

// CurrentSong returns a copy of the current song or nil.
func (q *Queue) CurrentSong() *Item {
	if q.currentSong == nil {
		return nil
	}

	item := *q.currentSong
	return &item
}

func (q *Queue) Append(item Item) {
	q.items = append(q.items, item)
}

// Clear empties the queue. The current song is left untouched.
func (q *Queue) Clear() {
	q.items = nil
}

// RemoveAt removes the item at index. An out-of-range index is a no-op and
// reports false.
func (q *Queue) RemoveAt(index int) bool {
	if !q.inRange(index) {
		return false
	}

	q.items = append(q.items[:index], q.items[index+1:]...)
	return true
}

// Advance pops the head of the queue into the current song and returns it.
// On an empty queue the current song becomes absent and nil is returned.
func (q *Queue) Advance() *Item {
	if len(q.items) == 0 {
		q.currentSong = nil
		return nil
	}

	head := q.items[0]
	q.items = q.items[1:]
	q.currentSong = &head

	return q.CurrentSong()
}

// PlayAt moves the item at index out of the queue into the current song.
// An out-of-range index is a no-op.
func (q *Queue) PlayAt(index int) (*Item, bool) {
	if !q.inRange(index) {
		return nil, false
	}

	item := q.items[index]
	q.items = append(q.items[:index], q.items[index+1:]...)
	q.currentSong = &item

	return q.CurrentSong(), true
}
