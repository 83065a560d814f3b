package smacker

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/llehouerou/go-smacker/internal/audio"
	"github.com/llehouerou/go-smacker/internal/bits"
	"github.com/llehouerou/go-smacker/internal/huffman"
	"github.com/llehouerou/go-smacker/internal/palette"
)

// NextFrame reads the next frame from the stream and decodes it: the
// palette chunk if present, every audio chunk, then the video.
//
// It returns io.EOF after the last frame. Any other error is fatal and
// later calls return ErrCorruptStream.
func (d *Decoder) NextFrame() (*FrameInfo, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	t := d.tables
	if d.frame >= len(t.frameSizes) {
		return nil, io.EOF
	}

	idx := d.frame
	size := t.frameSizes[idx] &^ 3
	typ := t.frameTypes[idx]

	buf, err := readFull(d.r, int64(size))
	if err != nil {
		return nil, d.fail(truncated(fmt.Sprintf("frame %d", idx), err))
	}
	d.frame++

	info := &FrameInfo{Index: idx, Size: size, Type: typ}
	pos := 0

	if typ&1 != 0 {
		if len(buf) == 0 || 4*int(buf[0]) > len(buf) {
			return nil, d.fail(fmt.Errorf("%w: palette chunk exceeds frame %d", ErrConsistency, idx))
		}
		n, err := d.UnpackPalette(buf)
		if err != nil {
			return nil, err
		}
		pos += n
		info.PaletteChanged = true
	}

	for track := 0; track < NumAudioTracks; track++ {
		if typ&(2<<track) == 0 {
			continue
		}
		n, err := d.demuxAudio(track, buf[pos:], info)
		if err != nil {
			return nil, err
		}
		pos += n
	}

	if err := d.DecodeFrame(buf[pos:]); err != nil {
		return nil, err
	}
	info.Blocks = d.video.Blocks()

	d.log.Debugw("frame decoded",
		"frame", idx,
		"size", size,
		"palette", info.PaletteChanged,
		"video_bytes", len(buf)-pos,
	)
	return info, nil
}

// demuxAudio handles one audio chunk at the start of rest and returns its
// size.
func (d *Decoder) demuxAudio(track int, rest []byte, info *FrameInfo) (int, error) {
	a := d.tables.header.Audio[track]

	if len(rest) < 4 {
		return 0, d.fail(fmt.Errorf("%w: audio track %d chunk exceeds frame", ErrConsistency, track))
	}
	chunkSize := binary.LittleEndian.Uint32(rest)
	if chunkSize < 4 || uint64(chunkSize) > uint64(len(rest)) {
		return 0, d.fail(fmt.Errorf("%w: audio track %d chunk size %d", ErrConsistency, track, chunkSize))
	}
	body := rest[4:chunkSize]

	var unpacked uint32
	if a.Compression == CompressionDPCM {
		if len(body) < 4 {
			return 0, d.fail(fmt.Errorf("%w: audio track %d chunk size %d", ErrConsistency, track, chunkSize))
		}
		unpacked = binary.LittleEndian.Uint32(body)
		body = body[4:]
	}

	if len(body) == 0 || !a.HasAudio || d.config.SkipAudio {
		return int(chunkSize), nil
	}

	var n int
	var err error
	switch a.Compression {
	case CompressionRDFT, CompressionDCT:
		if !d.warned[track] {
			d.warned[track] = true
			d.log.Warnw("skipping audio track",
				"track", track,
				"compression", a.Compression.String(),
				"error", ErrUnsupportedFeature,
			)
		}
		info.Skipped[track] = true
	case CompressionDPCM:
		n, err = d.queueCompressed(track, body, unpacked)
	default:
		n = d.queuePCM(track, body)
	}
	if err != nil {
		return 0, err
	}
	info.AudioBytes[track] = n
	return int(chunkSize), nil
}

// DecodeFrame decodes one video bitstream onto the surface. The surface
// changes only if the whole frame decodes.
func (d *Decoder) DecodeFrame(data []byte) error {
	if err := d.ready(); err != nil {
		return err
	}
	if data == nil {
		return ErrNilBuffer
	}

	// A zero byte after the payload keeps the last codes' peeks inside
	// the buffer.
	padded := make([]byte, len(data)+1)
	copy(padded, data)

	if err := d.video.Decode(bits.NewReader(padded)); err != nil {
		return d.fail(fmt.Errorf("%w: %w", ErrDataTruncated, err))
	}
	return nil
}

// UnpackPalette applies a palette chunk and returns the number of bytes it
// spans, which is 4 times its first byte.
func (d *Decoder) UnpackPalette(chunk []byte) (int, error) {
	if err := d.ready(); err != nil {
		return 0, err
	}
	if chunk == nil {
		return 0, ErrNilBuffer
	}

	n, err := d.palette.Unpack(chunk)
	if err != nil {
		code := ErrDataTruncated
		if errors.Is(err, palette.ErrOutOfRange) {
			code = ErrConsistency
		}
		return 0, d.fail(fmt.Errorf("%w: %w", code, err))
	}

	d.colors = d.palette.Colors()
	d.video.Surface().Palette = d.colors
	return n, nil
}

// QueueCompressedAudio decodes a Huffman DPCM chunk of track and hands the
// PCM to the audio sink. unpacked is the declared decoded size in bytes.
// A chunk flagged as carrying no data queues nothing.
func (d *Decoder) QueueCompressedAudio(track int, chunk []byte, unpacked uint32) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.checkTrack(track); err != nil {
		return err
	}
	if chunk == nil {
		return ErrNilBuffer
	}
	_, err := d.queueCompressed(track, chunk, unpacked)
	return err
}

// QueuePCM hands an uncompressed chunk of track to the audio sink. The
// chunk is copied.
func (d *Decoder) QueuePCM(track int, chunk []byte) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.checkTrack(track); err != nil {
		return err
	}
	if chunk == nil {
		return ErrNilBuffer
	}
	d.queuePCM(track, chunk)
	return nil
}

func (d *Decoder) checkTrack(track int) error {
	if track < 0 || track >= NumAudioTracks {
		return fmt.Errorf("%w: %d", ErrInvalidTrack, track)
	}
	if !d.tables.header.Audio[track].HasAudio {
		return fmt.Errorf("%w: track %d has no audio", ErrInvalidTrack, track)
	}
	return nil
}

func (d *Decoder) queueCompressed(track int, chunk []byte, unpacked uint32) (int, error) {
	a := d.tables.header.Audio[track]

	padded := make([]byte, len(chunk)+1)
	copy(padded, chunk)

	pcm, err := audio.Decode(padded, unpacked, audio.Format{Stereo: a.Stereo, Is16Bit: a.Is16Bit})
	if err != nil {
		code := ErrConsistency
		if errors.Is(err, audio.ErrTruncated) || errors.Is(err, huffman.ErrTruncated) {
			code = ErrDataTruncated
		}
		return 0, d.fail(fmt.Errorf("%w: audio track %d: %w", code, track, err))
	}
	if pcm == nil {
		return 0, nil
	}

	d.emit(track, pcm)
	return len(pcm), nil
}

func (d *Decoder) queuePCM(track int, chunk []byte) int {
	data := make([]byte, len(chunk))
	copy(data, chunk)
	d.emit(track, data)
	return len(data)
}

func (d *Decoder) emit(track int, data []byte) {
	if d.config.AudioSink == nil {
		return
	}
	d.config.AudioSink.QueueAudio(track, PCM{
		Format: d.tables.header.Audio[track].Format(),
		Data:   data,
	})
}
