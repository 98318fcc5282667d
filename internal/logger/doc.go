// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger wraps the underlying logging stack behind a consistent interface.
// Every sync run carries its logger through the context, so packages deep in the
// call chain log with the level and fields chosen by the command line.
package logger
