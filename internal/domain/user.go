package domain

// User represents a rater with the demographic fields used for segmentation.
type User struct {
	ID         int
	Age        int
	Gender     string
	Occupation string
	Zip        string
}
