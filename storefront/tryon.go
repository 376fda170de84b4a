package storefront

import (
	"fmt"
	"image"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"

	"skouce/tryon"
	"skouce/utils"
)

const maxCaptureUpload = 10 << 20

func (h *Handler) GetWristSizes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"sizes":    tryon.WristSizes,
		"position": tryon.Center,
	})
}

// CaptureTryOn composites the uploaded watch image onto the uploaded camera
// frame and returns the PNG. Form fields: frame, watch (files), productId,
// wristSize (mm), x and y (percent).
func (h *Handler) CaptureTryOn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCaptureUpload)
	if err := r.ParseMultipartForm(maxCaptureUpload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	p, found := h.Catalog.Product(r.FormValue("productId"))
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	frame, ok := formImage(w, r, "frame")
	if !ok {
		return
	}
	overlay, ok := formImage(w, r, "watch")
	if !ok {
		return
	}

	wrist := 170
	if v := r.FormValue("wristSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "wristSize must be a number")
			return
		}
		wrist = n
	}
	pos := tryon.Center
	for _, f := range []struct {
		key string
		dst *float64
	}{{"x", &pos.X}, {"y", &pos.Y}} {
		v, err := utils.OptionalFloat(r.FormValue(f.key))
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, f.key+" must be a number")
			return
		}
		if v != nil {
			*f.dst = *v
		}
	}

	src := &tryon.StaticSource{Image: frame}
	var photo tryon.Photo
	err := tryon.NewSession(src, p.Name, overlay).Use(r.Context(), func(ts *tryon.Session) error {
		if err := ts.SetWristSize(wrist); err != nil {
			return err
		}
		ts.SetPosition(pos)
		var err error
		photo, err = ts.Capture()
		return err
	})
	if err != nil {
		fail(w, err)
		return
	}
	utils.RespondWithFile(w, "image/png", photo.Filename, photo.PNG)
}

func formImage(w http.ResponseWriter, r *http.Request, key string) (image.Image, bool) {
	file, header, err := r.FormFile(key)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Missing %s image", key))
		return nil, false
	}
	defer file.Close()
	if !utils.ValidateImageFileType(w, header) {
		return nil, false
	}
	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Unreadable %s image", key))
		return nil, false
	}
	return img, true
}
