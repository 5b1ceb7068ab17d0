package rest

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/dmitrijs2005/storjvault/internal/server/keyspace"
	"github.com/dmitrijs2005/storjvault/internal/server/services"
	"github.com/go-chi/chi/v5"
)

const (
	// parts above this spill to temp files
	multipartMemory = 32 << 20
	// room for multipart framing on top of the upload limit
	multipartOverhead = 1 << 20
)

// keyParam returns the object key captured by a trailing wildcard, minus
// suffix. Keys arrive URL-encoded.
func keyParam(r *http.Request, suffix string) (string, error) {
	raw := chi.URLParam(r, "*")
	if suffix != "" {
		var ok bool
		if raw, ok = strings.CutSuffix(raw, suffix); !ok {
			return "", common.Errorf(common.ErrorNotFound, "Not Found")
		}
	}
	if raw == "" {
		return "", common.Errorf(common.ErrorValidation, "File path is required")
	}
	// chi routes on RawPath when the client escaped the path
	if r.URL.RawPath == "" {
		return raw, nil
	}
	key, err := url.PathUnescape(raw)
	if err != nil {
		return "", common.Errorf(common.ErrorValidation, "Invalid file path")
	}
	return key, nil
}

func (h *handler) upload(w http.ResponseWriter, r *http.Request) {
	if limit := h.opts.MaxUploadSize; limit > 0 {
		if r.ContentLength > limit+multipartOverhead {
			h.writeError(w, r, common.Errorf(common.ErrorTooLarge, "File exceeds the upload limit"))
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			h.writeError(w, r, common.Errorf(common.ErrorTooLarge, "File exceeds the upload limit"))
			return
		}
		h.writeError(w, r, common.Errorf(common.ErrorValidation, "No file uploaded"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, r, common.Errorf(common.ErrorValidation, "No file uploaded"))
		return
	}
	defer file.Close()

	f, err := h.files.Upload(r.Context(), vaultPrefix(r), services.UploadInput{
		Folder:      r.FormValue("folderPath"),
		FileName:    header.Filename,
		Body:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.BytesUploaded.Add(float64(f.Size))

	writeJSON(w, http.StatusOK, uploadResponse{
		Success: true,
		Message: "File uploaded successfully",
		File: uploadedFile{
			Path:         f.Key,
			Name:         f.Name,
			OriginalName: f.Name,
			Size:         f.Size,
			Mimetype:     f.ContentType,
			UploadDate:   f.UploadedAt,
			ParentPath:   f.ParentPath,
			DownloadURL:  keyspace.DownloadURL(f.Key),
			StreamURL:    keyspace.StreamURL(f.Key),
			CanCompress:  keyspace.CanCompress(f.Name),
		},
	})
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	l, err := h.files.List(r.Context(), vaultPrefix(r), r.URL.Query().Get("prefix"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := listResponse{
		Items:       make([]itemResponse, 0, len(l.Items)),
		CurrentPath: l.CurrentPath,
		ParentPath:  l.ParentPath,
	}
	for _, it := range l.Items {
		if it.IsFolder {
			resp.Items = append(resp.Items, itemResponse{Path: it.Key, Name: it.Name, IsFolder: true})
			continue
		}
		modified := it.Modified
		flags := it.Flags
		resp.Items = append(resp.Items, itemResponse{
			Path:         it.Key,
			Name:         it.Name,
			OriginalName: it.OriginalName,
			Size:         it.Size,
			Created:      &modified,
			Modified:     &modified,
			Flags:        &flags,
			DownloadURL:  keyspace.DownloadURL(it.Key),
			StreamURL:    keyspace.StreamURL(it.Key),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) createFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	f, err := h.files.CreateFolder(r.Context(), vaultPrefix(r), req.Path)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folderResponse{
		Success: true,
		Message: "Folder created successfully",
		Folder:  folderInfo{Path: f.Key, Name: f.Name, IsFolder: true, Created: f.Modified},
	})
}

func attachment(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}

// copyBody streams an open object to the client. Errors after the header
// was sent can only be logged.
func (h *handler) copyBody(w http.ResponseWriter, r *http.Request, d *services.Download) {
	n, err := io.Copy(w, d.Object.Body)
	h.metrics.BytesDownloaded.Add(float64(n))
	if err != nil {
		h.logger.Warn(r.Context(), "response body copy interrupted", "key", d.Object.Key, "written", n, "error", err)
	}
}

func (h *handler) download(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r, "")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("presign") == "1" {
		u, err := h.files.PresignDownload(r.Context(), vaultPrefix(r), key)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, presignResponse{URL: u, ExpiresIn: int64(h.opts.PresignExpiry.Seconds())})
		return
	}

	d, err := h.files.Download(r.Context(), vaultPrefix(r), key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer d.Object.Body.Close()

	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(d.Object.ContentLength, 10))
	w.Header().Set("Content-Disposition", attachment(d.FileName))
	w.WriteHeader(http.StatusOK)
	h.copyBody(w, r, d)
}

func (h *handler) stream(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r, "")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	d, err := h.files.Stream(r.Context(), vaultPrefix(r), key, r.Header.Get("Range"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer d.Object.Body.Close()

	hdr := w.Header()
	hdr.Set("Content-Type", d.ContentType)
	hdr.Set("Accept-Ranges", "bytes")
	hdr.Set("Cache-Control", "no-cache")
	if d.Range != nil {
		hdr.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", d.Range.Start, d.Range.End, d.Size))
		hdr.Set("Content-Length", strconv.FormatInt(d.Range.Len(), 10))
		w.WriteHeader(http.StatusPartialContent)
	} else {
		hdr.Set("Content-Length", strconv.FormatInt(d.Size, 10))
		w.WriteHeader(http.StatusOK)
	}
	h.copyBody(w, r, d)
}

func (h *handler) preview(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r, "")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.files.Preview(r.Context(), vaultPrefix(r), key)
	if err != nil {
		switch status := statusFor(err); status {
		case http.StatusNotFound:
			writeJSON(w, status, previewResponse{Type: "error", Message: "File not found."})
		case http.StatusInternalServerError:
			h.logger.Error(r.Context(), "preview failed", "key", key, "error", err)
			writeJSON(w, status, previewResponse{Type: "error", Message: "Could not load preview."})
		default:
			h.writeError(w, r, err)
		}
		return
	}

	resp := previewResponse{ContentType: p.ContentType}
	switch p.Kind {
	case keyspace.PreviewURL:
		resp.Type, resp.URL = "url", p.URL
	case keyspace.PreviewText:
		content := p.Content
		resp.Type, resp.Content = "text", &content
	default:
		resp.Type, resp.Message = "none", p.Message
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) properties(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r, "/properties")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.files.Properties(r.Context(), vaultPrefix(r), key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	md := p.Metadata
	if md == nil {
		md = map[string]string{}
	}
	writeJSON(w, http.StatusOK, propertiesResponse{
		Path:         p.Key,
		Name:         p.Name,
		OriginalName: p.OriginalName,
		Size:         p.Size,
		ContentType:  p.ContentType,
		Created:      p.LastModified,
		LastModified: p.LastModified,
		Flags:        p.Flags,
		CanCompress:  keyspace.CanCompress(p.Name),
		DownloadURL:  keyspace.DownloadURL(p.Key),
		StreamURL:    keyspace.StreamURL(p.Key),
		Metadata:     md,
	})
}

func (h *handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r, "")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.files.Delete(r.Context(), vaultPrefix(r), key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.ObjectsDeleted.Add(float64(res.Deleted))

	msg := fmt.Sprintf("File '%s' deleted successfully", res.Name)
	if res.IsFolder {
		msg = fmt.Sprintf("Folder '%s' and all its contents deleted successfully", res.Name)
	}
	writeJSON(w, http.StatusOK, deleteResponse{Success: true, Message: msg, Deleted: res.Deleted})
}

// renameOrMove serves PUT /file/{key}/rename and PUT /file/{key}/move.
func (h *handler) renameOrMove(w http.ResponseWriter, r *http.Request) {
	if key, err := keyParam(r, "/rename"); err == nil {
		h.rename(w, r, key)
		return
	}
	key, err := keyParam(r, "/move")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.move(w, r, key)
}

func itemKind(isFolder bool) string {
	if isFolder {
		return "Folder"
	}
	return "File"
}

func (h *handler) rename(w http.ResponseWriter, r *http.Request, key string) {
	var req renameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	isFolder := req.IsFolder || keyspace.IsFolderKey(key)

	res, err := h.files.Rename(r.Context(), vaultPrefix(r), key, req.NewName, isFolder)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.ObjectsMoved.Add(float64(res.Moved))

	writeJSON(w, http.StatusOK, moveResponse{
		Success: true,
		Message: itemKind(isFolder) + " renamed successfully",
		OldPath: res.OldKey,
		NewPath: res.NewKey,
		NewName: res.NewName,
	})
}

func (h *handler) move(w http.ResponseWriter, r *http.Request, key string) {
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	isFolder := req.IsFolder || keyspace.IsFolderKey(key)

	res, err := h.files.Move(r.Context(), vaultPrefix(r), key, req.Destination, isFolder)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.ObjectsMoved.Add(float64(res.Moved))

	writeJSON(w, http.StatusOK, moveResponse{
		Success: true,
		Message: itemKind(isFolder) + " moved successfully",
		OldPath: res.OldKey,
		NewPath: res.NewKey,
		NewName: res.NewName,
	})
}
