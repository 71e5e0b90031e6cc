// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package native hosts engines written in other languages behind a small
// C ABI, loaded at runtime with purego. No cgo toolchain is needed.
//
// A plugin exports five symbols:
//
//	int32_t  vh_engine_create(int32_t width, int32_t height);
//	int32_t  vh_engine_message(int32_t id, const char *tag, const uint8_t *data, int32_t len);
//	int32_t  vh_engine_render(int32_t id, int32_t width, int32_t height, uint64_t frame);
//	int32_t  vh_engine_pixels(int32_t id, uint8_t *dst, int32_t len, int32_t stride);
//	void     vh_engine_shutdown(int32_t id);
//
// vh_engine_create returns a non-negative engine id. vh_engine_render
// returns 1 when a new frame is ready, 0 when the previous frame still
// stands, and a negative code on failure. vh_engine_pixels copies the last
// frame as BGRA rows into dst and returns the bytes written.
//
// Message payloads cross the boundary as bytes: []byte and string are sent
// as is, anything else is encoded as JSON.
package native
