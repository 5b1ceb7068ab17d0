package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/storjvault/internal/server/compress"
	"github.com/dmitrijs2005/storjvault/internal/server/keyspace"
)

const defaultCompressPercentage = 50

func (h *handler) canCompress(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r, "")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ci, err := h.compression.CanCompress(r.Context(), vaultPrefix(r), key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, canCompressResponse{
		Path:                 ci.Key,
		Name:                 ci.Name,
		OriginalName:         ci.OriginalName,
		CanCompress:          ci.CanCompress,
		FileType:             ci.FileType,
		Size:                 ci.Size,
		SizeFormatted:        ci.SizeFormatted,
		SupportedPercentages: ci.SupportedPercentages,
		SupportedFormats:     ci.SupportedFormats,
		EstimatedSavings:     ci.EstimatedSavings,
	})
}

func (h *handler) compress(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r, "")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req compressRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	pct := defaultCompressPercentage
	if req.Percentage != nil {
		pct = *req.Percentage
	}
	format := req.Format
	if format == "" {
		format = compress.FormatAuto
	}

	res, err := h.compression.Compress(r.Context(), vaultPrefix(r), key, pct, format)
	saving := 0.0
	if res != nil {
		saving = res.Ratio
	}
	h.metrics.ObserveCompression(compress.FileType(keyspace.Base(key)), err, saving)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	ratio := strconv.FormatFloat(res.Ratio, 'f', 2, 64)
	writeJSON(w, http.StatusOK, compressResponse{
		Success:          true,
		OriginalSize:     res.OriginalSize,
		CompressedSize:   res.CompressedSize,
		CompressionRatio: ratio + "%",
		TargetPercentage: fmt.Sprintf("%d%%", res.Percentage),
		DownloadURL:      keyspace.CompressedURL(res.Key),
		Type:             res.FileType,
		Format:           res.Format,
		CanCompress:      true,
		Message:          fmt.Sprintf("File compressed to %d%% quality. Saved %s%% space.", res.Percentage, ratio),
	})
}

func (h *handler) downloadCompressed(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r, "")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	d, err := h.compression.Download(r.Context(), vaultPrefix(r), key)
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
