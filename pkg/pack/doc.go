// SPDX-License-Identifier: MPL-2.0

// Package pack turns a workspace into a package archive on disk.
//
// RenderTarget computes where the archive goes. Pipeline drives the run:
// lifecycle preparation, file listing, archive streaming and the write to
// disk, reporting every listed file and the final output through a
// report.Reporter. The collaborators that list files, encode the archive and
// run lifecycle scripts are interfaces so that each can be replaced.
package pack
