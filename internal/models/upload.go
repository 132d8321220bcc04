package models

import "io"

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Content  io.Reader
}
