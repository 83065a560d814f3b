// Command smkinfo prints the header of a Smacker file and decodes its
// frames, reporting what each stream carries.
//
// Usage:
//
//	smkinfo [-format text|cbor] [-frames N] [-dump out.zst] [-v] file.smk
//
// With -dump, every decoded frame is appended to a zstd stream as its
// 768-byte RGB palette followed by the palette-indexed pixels.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/llehouerou/go-smacker"
)

var (
	format  = flag.String("format", "text", "output format: text or cbor")
	frames  = flag.Int("frames", 0, "decode at most N frames (0 decodes all)")
	dump    = flag.String("dump", "", "write decoded frames to this zstd file")
	verbose = flag.Bool("v", false, "log decoder activity to stderr")
)

// report summarizes a decoded stream.
type report struct {
	Header         *smacker.Header              `cbor:"header"`
	Frames         int                          `cbor:"frames"`
	DirtyRects     int                          `cbor:"dirty_rects"`
	PaletteChanges int                          `cbor:"palette_changes"`
	Samples        [smacker.NumAudioTracks]int  `cbor:"samples"` // per channel
	Skipped        [smacker.NumAudioTracks]bool `cbor:"skipped"`
	Err            string                       `cbor:"error,omitempty"`
}

// options control inspect.
type options struct {
	maxFrames int
	dump      io.Writer
	logger    *zap.Logger
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: smkinfo [flags] file.smk\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *format != "text" && *format != "cbor" {
		log.Fatalf("unknown format %q", *format)
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			log.Fatal(err)
		}
	}
	defer func() { _ = logger.Sync() }()

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	opts := options{maxFrames: *frames, logger: logger}
	if *dump != "" {
		out, err := os.Create(*dump)
		if err != nil {
			log.Fatal(err)
		}
		defer out.Close()
		opts.dump = out
	}

	rep, err := inspect(f, opts)
	if rep == nil {
		log.Fatal(err)
	}
	if err := writeReport(os.Stdout, rep, *format); err != nil {
		log.Fatal(err)
	}
	if err != nil {
		os.Exit(1)
	}
}

// inspect opens the stream and decodes up to opts.maxFrames frames. A
// decode error after the header was read is recorded in the report and
// also returned.
func inspect(r io.Reader, opts options) (*report, error) {
	rep := &report{}

	dec := smacker.NewDecoder()
	defer dec.Close()
	dec.SetConfiguration(smacker.Config{
		Logger: opts.logger,
		AudioSink: smacker.AudioSinkFunc(func(track int, pcm smacker.PCM) {
			channels := 1
			if pcm.Format.Stereo {
				channels = 2
			}
			rep.Samples[track] += len(pcm.Int16()) / channels
		}),
	})

	h, err := dec.Open(r)
	if err != nil {
		return nil, err
	}
	rep.Header = h

	var enc *zstd.Encoder
	if opts.dump != nil {
		if enc, err = zstd.NewWriter(opts.dump); err != nil {
			return nil, err
		}
	}

	err = decodeFrames(dec, rep, opts.maxFrames, enc)
	if enc != nil {
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		rep.Err = err.Error()
	}
	return rep, err
}

func decodeFrames(dec *smacker.Decoder, rep *report, limit int, enc *zstd.Encoder) error {
	for limit == 0 || rep.Frames < limit {
		info, err := dec.NextFrame()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		rep.Frames++
		if info.PaletteChanged {
			rep.PaletteChanges++
		}
		for i, s := range info.Skipped {
			rep.Skipped[i] = rep.Skipped[i] || s
		}
		for _, ok := dec.NextDirtyRect(); ok; _, ok = dec.NextDirtyRect() {
			rep.DirtyRects++
		}

		if enc != nil {
			if _, err := enc.Write(paletteBytes(dec.Palette())); err != nil {
				return err
			}
			if _, err := enc.Write(dec.Surface().Pix); err != nil {
				return err
			}
		}
	}
	return nil
}

// paletteBytes flattens a palette to RGB triples.
func paletteBytes(p color.Palette) []byte {
	out := make([]byte, 0, 3*len(p))
	for _, c := range p {
		r, g, b, _ := c.RGBA()
		out = append(out, byte(r>>8), byte(g>>8), byte(b>>8))
	}
	return out
}

func writeReport(w io.Writer, rep *report, format string) error {
	if format == "cbor" {
		em, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return err
		}
		data, err := em.Marshal(rep)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	h := rep.Header
	num, den := h.FrameRate()
	fmt.Fprintf(w, "version     SMK%d\n", h.Version)
	fmt.Fprintf(w, "size        %dx%d (yscale %d)\n", h.Width, h.Height, h.YScale())
	fmt.Fprintf(w, "frames      %d at %.2f fps\n", h.FrameCount, float64(num)/float64(den))
	for i, a := range h.Audio {
		if !a.HasAudio {
			continue
		}
		bitsPerSample, layout := 8, "mono"
		if a.Is16Bit {
			bitsPerSample = 16
		}
		if a.Stereo {
			layout = "stereo"
		}
		status := fmt.Sprintf("%d samples", rep.Samples[i])
		if rep.Skipped[i] {
			status = "not decoded"
		}
		fmt.Fprintf(w, "audio %d     %s %d Hz %d-bit %s: %s\n",
			i, a.Compression, a.SampleRate, bitsPerSample, layout, status)
	}
	fmt.Fprintf(w, "decoded     %d frames, %d dirty rects, %d palette changes\n",
		rep.Frames, rep.DirtyRects, rep.PaletteChanges)
	if rep.Err != "" {
		fmt.Fprintf(w, "error       %s\n", rep.Err)
	}
	return nil
}
