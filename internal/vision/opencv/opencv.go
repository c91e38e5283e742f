// Package opencv is the production vision backend, wrapping OpenCV via
// gocv: VideoCapture cameras, Haar cascade detection and the LBPH face
// recognizer with its YAML artifact. The backend is constructed explicitly
// with its cascade path; nothing here loads native state at import time.
package opencv

import (
	"context"
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/vision"
)

type Backend struct {
	cascadePath string
}

func New(cascadePath string) *Backend {
	return &Backend{cascadePath: cascadePath}
}

func (b *Backend) OpenCamera(device int) (vision.Camera, error) {
	cap, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, domain.ErrCameraOpen.WithError(err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, domain.ErrCameraOpen.WithError(fmt.Errorf("device %d not opened", device))
	}
	return &camera{cap: cap, frame: gocv.NewMat()}, nil
}

func (b *Backend) NewDetector() (vision.Detector, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(b.cascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("load cascade %s", b.cascadePath)
	}
	return &detector{classifier: classifier}, nil
}

func (b *Backend) NewTrainer() (vision.Trainer, error) {
	return &trainer{recognizer: contrib.NewLBPHFaceRecognizer()}, nil
}

func (b *Backend) NewClassifier() (vision.Classifier, error) {
	return &classifier{recognizer: contrib.NewLBPHFaceRecognizer()}, nil
}

type camera struct {
	cap   *gocv.VideoCapture
	frame gocv.Mat
}

func (c *camera) Read(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.cap.Read(&c.frame) {
		return nil, domain.ErrCameraRead.WithError(fmt.Errorf("capture read failed"))
	}
	if c.frame.Empty() {
		return nil, nil
	}
	img, err := c.frame.ToImage()
	if err != nil {
		return nil, domain.ErrCameraRead.WithError(err)
	}
	return img, nil
}

func (c *camera) Close() error {
	c.frame.Close()
	return c.cap.Close()
}

type detector struct {
	classifier gocv.CascadeClassifier
}

func (d *detector) Detect(frame image.Image) ([]image.Rectangle, error) {
	if frame == nil {
		return nil, nil
	}

	mat, err := grayMat(frame)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	return d.classifier.DetectMultiScale(mat), nil
}

func (d *detector) Close() error {
	return d.classifier.Close()
}

type trainer struct {
	recognizer *contrib.LBPHFaceRecognizer
}

func (t *trainer) Fit(samples []*image.Gray, labels []int) error {
	if len(samples) != len(labels) {
		return domain.ErrValidationFailed.WithError(fmt.Errorf("%d samples vs %d labels", len(samples), len(labels)))
	}

	mats := make([]gocv.Mat, 0, len(samples))
	defer func() {
		for _, m := range mats {
			m.Close()
		}
	}()
	for _, s := range samples {
		mat, err := sampleMat(s)
		if err != nil {
			return err
		}
		mats = append(mats, mat)
	}

	t.recognizer.Train(mats, labels)
	return nil
}

func (t *trainer) Save(path string) error {
	t.recognizer.SaveFile(path)
	return nil
}

func (t *trainer) Close() error { return nil }

type classifier struct {
	recognizer *contrib.LBPHFaceRecognizer
	loaded     bool
}

func (c *classifier) Load(path string) error {
	// LBPHFaceRecognizer.LoadFile aborts inside native code on a missing
	// file, so the existence check has to happen here.
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return domain.ErrModelUnavailable.WithError(err)
		}
		return fmt.Errorf("load model: %w", err)
	}
	c.recognizer.LoadFile(path)
	c.loaded = true
	return nil
}

func (c *classifier) Predict(sample *image.Gray) (int, float64, error) {
	if !c.loaded {
		return 0, 0, domain.ErrModelUnavailable
	}

	mat, err := sampleMat(sample)
	if err != nil {
		return 0, 0, err
	}
	defer mat.Close()

	resp := c.recognizer.PredictExtendedResponse(mat)
	return int(resp.Label), float64(resp.Confidence), nil
}

func (c *classifier) Close() error { return nil }

// grayMat converts any frame into a single-channel gray Mat.
func grayMat(frame image.Image) (gocv.Mat, error) {
	if gray, ok := frame.(*image.Gray); ok {
		return sampleMat(gray)
	}

	rgba := image.NewRGBA(frame.Bounds())
	for y := frame.Bounds().Min.Y; y < frame.Bounds().Max.Y; y++ {
		for x := frame.Bounds().Min.X; x < frame.Bounds().Max.X; x++ {
			rgba.Set(x, y, frame.At(x, y))
		}
	}

	src, err := gocv.ImageToMatRGBA(rgba)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("convert frame: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	gocv.CvtColor(src, &dst, gocv.ColorRGBAToGray)
	return dst, nil
}

// sampleMat wraps a canonical gray sample as an 8UC1 Mat.
func sampleMat(sample *image.Gray) (gocv.Mat, error) {
	b := sample.Bounds()
	w, h := b.Dx(), b.Dy()

	pix := sample.Pix
	if sample.Stride != w {
		pix = make([]byte, 0, w*h)
		for y := 0; y < h; y++ {
			row := sample.Pix[y*sample.Stride : y*sample.Stride+w]
			pix = append(pix, row...)
		}
	}

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("convert sample: %w", err)
	}
	return mat, nil
}

var (
	_ vision.Backend    = (*Backend)(nil)
	_ vision.Camera     = (*camera)(nil)
	_ vision.Detector   = (*detector)(nil)
	_ vision.Trainer    = (*trainer)(nil)
	_ vision.Classifier = (*classifier)(nil)
)
