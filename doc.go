// Package smacker provides a pure Go decoder for Smacker video files.
//
// Smacker streams interleave palette-indexed video, coded as 4×4 blocks
// with adaptive Huffman trees, with up to seven audio tracks that are
// either raw PCM or Huffman coded DPCM.
//
// # Basic Usage
//
// To decode a file frame by frame:
//
//	dec := smacker.NewDecoder()
//	defer dec.Close()
//
//	hdr, err := dec.Open(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for {
//	    info, err := dec.NextFrame()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for r, ok := dec.NextDirtyRect(); ok; r, ok = dec.NextDirtyRect() {
//	        // Copy r from dec.Surface() to the screen.
//	    }
//	}
//
// Audio is delivered to the AudioSink set in Config as each frame is
// demultiplexed.
//
// # Lower Level API
//
// Callers that demultiplex the container themselves can feed chunks
// directly with DecodeFrame, UnpackPalette, QueueCompressedAudio and
// QueuePCM after Open.
//
// # Errors
//
// Errors wrap an Error code. ErrFormat rejects a stream at Open.
// ErrDataTruncated and ErrConsistency are fatal: the decoder refuses
// further decoding with ErrCorruptStream until the next Open. RDFT and DCT
// compressed audio tracks are skipped and logged, not reported as errors.
//
// # Thread Safety
//
// Decoder instances are NOT safe for concurrent use. Each goroutine should
// have its own Decoder.
package smacker
