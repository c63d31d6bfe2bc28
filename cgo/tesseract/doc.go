// Package tesseract provides CGO bindings for Tesseract OCR.
// It implements the driven.OCREngine interface.
//
// Build requires:
//   - Tesseract and Leptonica development headers (via gosseract)
//   - MuPDF for page rasterisation (via go-fitz)
package tesseract
