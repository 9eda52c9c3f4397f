// SPDX-License-Identifier: EPL-2.0

// Package dsf demuxes Sony DSD Stream Files.
//
// A DSF file stores one-bit audio in blocks of 4096 bytes per channel. The
// demuxer hands out one block per channel per packet, planar, with the bit
// order the file declares (bits per sample 1 is LSB first, 8 is MSB first).
// The stream's sample rate is the DSD bit rate divided by eight, so a
// packet's Duration counts DSD bytes per channel.
//
// Register binds the .dsf extension and the dsd package decoder, which
// turns the stream into PCM when the output is not DSD.
package dsf
