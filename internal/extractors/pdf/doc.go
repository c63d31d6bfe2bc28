// Package pdf provides the Extractor implementation for PDF documents.
// It reads the native text layer of each page and falls back to OCR for
// pages with little or no text, such as scanned images, before splitting
// the result into overlapping chunks ready for embedding.
package pdf
