package domain

import (
	"image"
	"time"

	"github.com/google/uuid"
)

// FaceSample é uma amostra de face normalizada pertencente a um funcionário.
// Data holds the JPEG-encoded canonical grayscale image. Samples are
// immutable once stored; employees themselves are externally owned and only
// referenced by id here.
type FaceSample struct {
	ID         uuid.UUID `json:"id"`
	EmployeeID int       `json:"employee_id"`
	Data       []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecognitionResult is the transient outcome of classifying one sample.
// Score uses distance semantics: lower means more similar. Region is the
// face rectangle in the source frame, for presentation layers that want
// to outline it; the zero rectangle means the source region is unknown.
type RecognitionResult struct {
	EmployeeID int             `json:"employee_id"`
	Score      float64         `json:"score"`
	Region     image.Rectangle `json:"-"`
}
