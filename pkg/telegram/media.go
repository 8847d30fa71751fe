// tgtransfer - Batch media transfer tools for Telegram.
// Copyright (C) 2026 tgtransfer contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package telegram

import (
	"fmt"
	"path"
	"strings"

	"github.com/gotd/td/tg"
)

// MediaKind selects which messages a download run fetches.
type MediaKind int

const (
	MediaImages MediaKind = iota + 1
	MediaVideos
	MediaPDFs
	MediaZIPs
	MediaAll
)

var MediaKinds = []MediaKind{MediaImages, MediaVideos, MediaPDFs, MediaZIPs, MediaAll}

func (k MediaKind) String() string {
	switch k {
	case MediaImages:
		return "Images"
	case MediaVideos:
		return "Videos"
	case MediaPDFs:
		return "PDFs"
	case MediaZIPs:
		return "ZIP files"
	case MediaAll:
		return "All types"
	default:
		return fmt.Sprintf("MediaKind(%d)", int(k))
	}
}

func (k MediaKind) Valid() bool {
	return k >= MediaImages && k <= MediaAll
}

// DefaultFolder is the folder name offered when the user doesn't pick one.
func (k MediaKind) DefaultFolder() string {
	switch k {
	case MediaImages:
		return "images"
	case MediaVideos:
		return "videos"
	case MediaPDFs:
		return "pdfs"
	case MediaZIPs:
		return "zips"
	default:
		return "all_media"
	}
}

// searchFilter is the server side filter. A nil filter means plain history.
func (k MediaKind) searchFilter() tg.MessagesFilterClass {
	switch k {
	case MediaImages:
		return &tg.InputMessagesFilterPhotos{}
	case MediaVideos:
		return &tg.InputMessagesFilterVideo{}
	case MediaPDFs, MediaZIPs:
		return &tg.InputMessagesFilterDocument{}
	default:
		return nil
	}
}

// Matches applies the client side part of the filter.
func (k MediaKind) Matches(msg *tg.Message) bool {
	switch k {
	case MediaPDFs:
		doc := messageDocument(msg)
		return doc != nil && doc.MimeType == "application/pdf"
	case MediaZIPs:
		doc := messageDocument(msg)
		return doc != nil && doc.MimeType == "application/zip"
	default:
		return messageDocument(msg) != nil || messagePhoto(msg) != nil
	}
}

func messageDocument(msg *tg.Message) *tg.Document {
	media, ok := msg.GetMedia()
	if !ok {
		return nil
	}
	docMedia, ok := media.(*tg.MessageMediaDocument)
	if !ok {
		return nil
	}
	dc, ok := docMedia.GetDocument()
	if !ok {
		return nil
	}
	doc, _ := dc.(*tg.Document)
	return doc
}

func messagePhoto(msg *tg.Message) *tg.Photo {
	media, ok := msg.GetMedia()
	if !ok {
		return nil
	}
	photoMedia, ok := media.(*tg.MessageMediaPhoto)
	if !ok {
		return nil
	}
	pc, ok := photoMedia.GetPhoto()
	if !ok {
		return nil
	}
	photo, _ := pc.(*tg.Photo)
	return photo
}

// FileName derives the local file name for the media in msg. The original
// file name is used when the sender provided one, otherwise a name is built
// from the media type and the message ID.
func FileName(msg *tg.Message) string {
	if doc := messageDocument(msg); doc != nil {
		for _, attr := range doc.Attributes {
			if fn, ok := attr.(*tg.DocumentAttributeFilename); ok {
				if name := sanitizeFileName(fn.FileName); name != "" {
					return name
				}
			}
		}
		if doc.MimeType != "" {
			ext := doc.MimeType[strings.LastIndexByte(doc.MimeType, '/')+1:]
			switch {
			case ext == "pdf":
				return fmt.Sprintf("document_%d.pdf", msg.ID)
			case ext == "zip" || ext == "x-zip-compressed":
				return fmt.Sprintf("archive_%d.zip", msg.ID)
			case strings.Contains(doc.MimeType, "video"):
				return fmt.Sprintf("video_%d.mp4", msg.ID)
			}
		}
		return fmt.Sprintf("document_%d.bin", msg.ID)
	} else if messagePhoto(msg) != nil {
		return fmt.Sprintf("photo_%d.jpg", msg.ID)
	}
	return fmt.Sprintf("media_%d.bin", msg.ID)
}

// sanitizeFileName strips any directory components so that a sender chosen
// name can't escape the destination folder.
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	switch name {
	case ".", "..", "/":
		return ""
	}
	return strings.TrimSpace(name)
}

type dimensionable interface {
	GetW() int
	GetH() int
}

func getLargestPhotoSize(sizes []tg.PhotoSizeClass) (width, height, fileSize int, largest tg.PhotoSizeClass) {
	for _, s := range sizes {
		var currentSize int
		switch size := s.(type) {
		case *tg.PhotoSize:
			currentSize = size.GetSize()
		case *tg.PhotoCachedSize:
			currentSize = len(size.Bytes)
		case *tg.PhotoSizeProgressive:
			for _, sz := range size.Sizes {
				currentSize = max(currentSize, sz)
			}
		default:
			// Stripped and path sizes are inline previews, not downloadable.
			continue
		}

		if largest == nil || currentSize > fileSize {
			fileSize = currentSize
			largest = s
			if d, ok := s.(dimensionable); ok {
				width = d.GetW()
				height = d.GetH()
			}
		}
	}
	return
}

// Media is the downloadable part of a message.
type Media struct {
	MessageID int
	Name      string
	Size      int64
	MIMEType  string
	Location  tg.InputFileLocationClass
}

// MediaFromMessage extracts the file location of the document or the largest
// photo size in msg.
func MediaFromMessage(msg *tg.Message) (*Media, error) {
	if doc := messageDocument(msg); doc != nil {
		return &Media{
			MessageID: msg.ID,
			Name:      FileName(msg),
			Size:      doc.Size,
			MIMEType:  doc.MimeType,
			Location: &tg.InputDocumentFileLocation{
				ID:            doc.GetID(),
				AccessHash:    doc.GetAccessHash(),
				FileReference: doc.GetFileReference(),
			},
		}, nil
	} else if photo := messagePhoto(msg); photo != nil {
		_, _, fileSize, largest := getLargestPhotoSize(photo.GetSizes())
		if largest == nil {
			return nil, fmt.Errorf("%w: photo %d has no downloadable sizes", ErrNoMedia, photo.GetID())
		}
		return &Media{
			MessageID: msg.ID,
			Name:      FileName(msg),
			Size:      int64(fileSize),
			MIMEType:  "image/jpeg",
			Location: &tg.InputPhotoFileLocation{
				ID:            photo.GetID(),
				AccessHash:    photo.GetAccessHash(),
				FileReference: photo.GetFileReference(),
				ThumbSize:     largest.GetType(),
			},
		}, nil
	}
	return nil, fmt.Errorf("%w: message %d", ErrNoMedia, msg.ID)
}

func mimeFromStorageType(storageFileType tg.StorageFileTypeClass) string {
	switch storageFileType.(type) {
	case *tg.StorageFileJpeg:
		return "image/jpeg"
	case *tg.StorageFileGif:
		return "image/gif"
	case *tg.StorageFilePng:
		return "image/png"
	case *tg.StorageFilePdf:
		return "application/pdf"
	case *tg.StorageFileMp3:
		return "audio/mp3"
	case *tg.StorageFileMov:
		return "video/quicktime"
	case *tg.StorageFileMp4:
		return "video/mp4"
	case *tg.StorageFileWebp:
		return "image/webp"
	default:
		return ""
	}
}
