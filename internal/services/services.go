package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"sort"
)

// buildForm assembles a multipart form with the given text fields and one
// optional file part. It returns the encoded body and the content type the
// form writer computed, boundary included. The client passes that content
// type through untouched.
func buildForm(fields map[string]string, fileField, fileName string, file io.Reader) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}

	if file != nil {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, "", fmt.Errorf("failed to copy file into form: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return body, w.FormDataContentType(), nil
}
