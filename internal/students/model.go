package students

import "time"

// Student is the API-facing student record. IDs surface as strings: ObjectID
// hex when Mongo-backed, small numeric strings in sample-data mode.
type Student struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
}
