package smacker

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"go.uber.org/zap"

	"github.com/llehouerou/go-smacker/internal/bits"
	"github.com/llehouerou/go-smacker/internal/huffman"
	"github.com/llehouerou/go-smacker/internal/palette"
	"github.com/llehouerou/go-smacker/internal/video"
)

// Decoder decodes one Smacker stream. It owns the frame surface, the
// palette and the persistent Huffman trees of the stream.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	config Config
	log    *zap.SugaredLogger

	r      io.Reader
	tables *streamTables
	frame  int // index of the next frame NextFrame reads

	video   *video.Decoder
	palette palette.Palette
	colors  color.Palette

	warned [NumAudioTracks]bool // unsupported compression logged
	failed error                // first fatal error, sticky
}

// NewDecoder creates a decoder with default settings: no logging, audio
// decoded and discarded.
func NewDecoder() *Decoder {
	d := &Decoder{}
	d.setLogger(nil)
	return d
}

// Config returns the current decoder configuration.
func (d *Decoder) Config() Config {
	return d.config
}

// SetConfiguration sets the decoder configuration.
// It should be called before Open.
func (d *Decoder) SetConfiguration(cfg Config) {
	d.config = cfg
	d.setLogger(cfg.Logger)
}

func (d *Decoder) setLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	d.log = l.Sugar().Named("smacker")
}

// Open reads the stream header, the frame tables and the bootstrap trees
// from r. Frames are then read from r by NextFrame.
//
// On error the decoder keeps no state from r.
func (d *Decoder) Open(r io.Reader) (*Header, error) {
	if d == nil {
		return nil, ErrNilDecoder
	}
	if r == nil {
		return nil, ErrNilBuffer
	}
	d.Close()

	t, err := readTables(r)
	if err != nil {
		d.log.Errorw("open failed", "error", err)
		return nil, err
	}
	h := &t.header

	trees, err := video.ReadTrees(bits.NewReader(t.trees), video.TreeSizes{
		MMap: h.MMapSize,
		MClr: h.MClrSize,
		Full: h.FullSize,
		Type: h.TypeSize,
	})
	if err != nil {
		err = wrapTreeError(err)
		d.log.Errorw("open failed", "error", err)
		return nil, err
	}

	vd, err := video.NewDecoder(video.Config{
		Width:   int(h.Width),
		Height:  int(h.Height),
		YScale:  h.YScale(),
		Version: video.Version(h.Version),
	}, trees)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	d.r = r
	d.tables = t
	d.video = vd
	d.colors = d.palette.Colors()
	vd.Surface().Palette = d.colors

	num, den := h.FrameRate()
	d.log.Infow("stream opened",
		"version", h.Version,
		"width", h.Width,
		"height", h.Height,
		"yscale", h.YScale(),
		"frames", h.FrameCount,
		"fps", fmt.Sprintf("%d/%d", num, den),
		"first_frame", headerSize+5*int64(h.FrameCount)+int64(h.TreesSize),
	)
	for i, a := range h.Audio {
		if a.HasAudio {
			d.log.Infow("audio track",
				"track", i,
				"compression", a.Compression.String(),
				"rate", a.SampleRate,
				"stereo", a.Stereo,
				"16bit", a.Is16Bit,
			)
		}
	}

	hc := *h
	return &hc, nil
}

// wrapTreeError attaches the root code matching a tree construction error.
func wrapTreeError(err error) error {
	if errors.Is(err, huffman.ErrTreeOverflow) || errors.Is(err, huffman.ErrTreeDepth) {
		return fmt.Errorf("%w: %w", ErrConsistency, err)
	}
	return fmt.Errorf("%w: %w", ErrDataTruncated, err)
}

// Header returns a copy of the stream header, or nil if no stream is open.
func (d *Decoder) Header() *Header {
	if d.tables == nil {
		return nil
	}
	h := d.tables.header
	return &h
}

// FrameRate returns the stream frame rate as num/den frames per second.
func (d *Decoder) FrameRate() (num, den int) {
	if d.tables == nil {
		return 0, 1
	}
	return d.tables.header.FrameRate()
}

// Surface returns the current frame as palette indices. The image is
// updated in place by every decoded frame and its palette by every palette
// chunk. Its height is the stored height times the Y scale.
func (d *Decoder) Surface() *image.Paletted {
	if d.video == nil {
		return nil
	}
	return d.video.Surface()
}

// Palette returns the current palette.
func (d *Decoder) Palette() color.Palette {
	return d.colors
}

// PaletteDirty reports whether the palette changed since the last call,
// and clears the flag.
func (d *Decoder) PaletteDirty() bool {
	dirty := d.palette.Dirty()
	d.palette.ClearDirty()
	return dirty
}

// NextDirtyRect returns the next rectangle of the surface changed by the
// last frame, in surface coordinates. It returns false when none remains.
func (d *Decoder) NextDirtyRect() (image.Rectangle, bool) {
	if d.video == nil {
		return image.Rectangle{}, false
	}
	return d.video.NextDirtyRect()
}

// Close releases the stream. The decoder can be reused with Open.
func (d *Decoder) Close() {
	d.r = nil
	d.tables = nil
	d.frame = 0
	d.video = nil
	d.palette = palette.Palette{}
	d.colors = nil
	d.warned = [NumAudioTracks]bool{}
	d.failed = nil
}

// fail records a fatal error. Later decode calls return ErrCorruptStream.
func (d *Decoder) fail(err error) error {
	d.failed = err
	d.log.Errorw("decode failed", "frame", d.frame, "error", err)
	return err
}

// ready checks that a stream is open and has not failed.
func (d *Decoder) ready() error {
	if d == nil {
		return ErrNilDecoder
	}
	if d.video == nil {
		return ErrNotOpen
	}
	if d.failed != nil {
		return fmt.Errorf("%w: %w", ErrCorruptStream, d.failed)
	}
	return nil
}
