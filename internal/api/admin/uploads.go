package admin

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/casaluxe/stay/internal/api/apiutil"
	"github.com/casaluxe/stay/internal/objectstore"
	"github.com/casaluxe/stay/internal/store"
)

const (
	// MaxGalleryUploads caps the files accepted by one gallery upload.
	MaxGalleryUploads = 15
	maxImageBytes     = 10 << 20
	maxMultipartBytes = MaxGalleryUploads*maxImageBytes + 1<<20
	multipartMemory   = 32 << 20
)

// uploadImage stores one multipart file under prefix and returns its
// public URL. seq is the file's position in the request.
func uploadImage(r *http.Request, images objectstore.Store, prefix string, seq int, fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxImageBytes {
		return "", fmt.Errorf("arquivo maior que %d MB", maxImageBytes>>20)
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", errors.New("o arquivo não é uma imagem")
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectPath := objectstore.ObjectPath(prefix, fh.Filename, deps.Now(), seq)
	return images.Upload(r.Context(), objectPath, f, fh.Size, contentType)
}

// deleteImage removes the object behind publicURL. URLs that do not map to
// an object are left alone.
func deleteImage(r *http.Request, images objectstore.Store, publicURL string) {
	if publicURL == "" {
		return
	}
	objectPath, ok := images.PathFromURL(publicURL)
	if !ok {
		log.Ctx(r.Context()).Debug().Str("url", publicURL).Msg("Image URL has no object path; skipping delete")
		return
	}
	if err := images.Delete(r.Context(), objectPath); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("path", objectPath).Msg("Failed to delete image")
	}
}

func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
	return r.ParseMultipartForm(multipartMemory)
}

// HandleUploadHeroImage handles POST /admin/hero/image.
func HandleUploadHeroImage(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	if err := parseMultipart(w, r); err != nil {
		failed(w, r, err, "Envio inválido.")
		return
	}
	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		redirectError(w, r, "Selecione uma imagem.")
		return
	}

	previous := deps.Settings.Snapshot().Hero.ImageURL
	imageURL, err := uploadImage(r, deps.HeroImages, "hero", 0, files[0])
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("file", files[0].Filename).Msg("Hero image upload failed")
		redirectError(w, r, "Erro ao enviar imagem: "+err.Error())
		return
	}
	if _, err := deps.Settings.SetHeroImage(r.Context(), imageURL); err != nil {
		deleteImage(r, deps.HeroImages, imageURL)
		failed(w, r, err, "Erro ao salvar a imagem de destaque.")
		return
	}
	if previous != imageURL {
		deleteImage(r, deps.HeroImages, previous)
	}
	redirectNotice(w, r, "Imagem de destaque atualizada.")
}

// HandleDeleteHeroImage handles POST /admin/hero/image/delete.
func HandleDeleteHeroImage(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	previous := deps.Settings.Snapshot().Hero.ImageURL
	if _, err := deps.Settings.SetHeroImage(r.Context(), ""); err != nil {
		failed(w, r, err, "Erro ao remover a imagem de destaque.")
		return
	}
	deleteImage(r, deps.HeroImages, previous)
	redirectNotice(w, r, "Imagem de destaque removida.")
}

// HandleUploadGallery handles POST /admin/gallery. Each file is uploaded on
// its own; failures are reported and skipped.
func HandleUploadGallery(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	logger := log.Ctx(r.Context())
	if err := parseMultipart(w, r); err != nil {
		failed(w, r, err, "Envio inválido.")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		redirectError(w, r, "Selecione ao menos uma imagem.")
		return
	}
	if len(files) > MaxGalleryUploads {
		redirectError(w, r, fmt.Sprintf("Envie no máximo %d imagens por vez.", MaxGalleryUploads))
		return
	}

	title := r.FormValue("title")
	description := r.FormValue("description")

	var (
		items    []store.GalleryItem
		failures []string
	)
	for i, fh := range files {
		imageURL, err := uploadImage(r, deps.GalleryImages, "gallery", i, fh)
		if err != nil {
			logger.Warn().Err(err).Str("file", fh.Filename).Msg("Gallery upload failed")
			failures = append(failures, fmt.Sprintf("%s (%v)", fh.Filename, err))
			continue
		}
		items = append(items, store.GalleryItem{ImageURL: imageURL, Title: title, Description: description})
	}

	if len(items) > 0 {
		if _, err := deps.Settings.AddGalleryItems(r.Context(), items); err != nil {
			for _, item := range items {
				deleteImage(r, deps.GalleryImages, item.ImageURL)
			}
			failed(w, r, err, "Erro ao salvar a galeria.")
			return
		}
	}

	logger.Info().Int("uploaded", len(items)).Int("failed", len(failures)).Msg("Gallery upload finished")
	if len(failures) > 0 {
		msg := fmt.Sprintf("%d imagem(ns) adicionada(s). Falha ao enviar: %s", len(items), strings.Join(failures, "; "))
		redirectError(w, r, msg)
		return
	}
	redirectNotice(w, r, fmt.Sprintf("%d imagem(ns) adicionada(s).", len(items)))
}

// galleryEdits rebuilds the gallery from the posted id, title and
// description lists, in posted order. Every current item must be listed
// exactly once.
func galleryEdits(current []store.GalleryItem, ids, titles, descriptions []string) ([]store.GalleryItem, error) {
	if len(ids) != len(current) || len(titles) != len(ids) || len(descriptions) != len(ids) {
		return nil, apiutil.FieldError{Field: "id", Reason: "must list every gallery item"}
	}
	byID := make(map[string]store.GalleryItem, len(current))
	for _, item := range current {
		byID[item.ID] = item
	}
	items := make([]store.GalleryItem, 0, len(ids))
	for i, id := range ids {
		item, ok := byID[strings.TrimSpace(id)]
		if !ok {
			return nil, apiutil.FieldError{Field: "id", Reason: "unknown gallery item " + id}
		}
		delete(byID, item.ID)
		item.Title = titles[i]
		item.Description = descriptions[i]
		items = append(items, item)
	}
	return items, nil
}

// HandleSaveGallery handles POST /admin/gallery/save: edits titles and
// descriptions and keeps the posted order.
func HandleSaveGallery(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		failed(w, r, err, "Envio inválido.")
		return
	}
	items, err := galleryEdits(deps.Settings.Snapshot().Gallery, r.PostForm["id"], r.PostForm["title"], r.PostForm["description"])
	if err != nil {
		failed(w, r, err, "A galeria mudou. Recarregue a página e tente novamente.")
		return
	}
	saved, err := deps.Settings.ReplaceGallery(r.Context(), items)
	if err != nil {
		failed(w, r, err, "Erro ao salvar a galeria.")
		return
	}
	log.Ctx(r.Context()).Info().Int("items", len(saved)).Msg("Gallery saved")
	redirectNotice(w, r, "Galeria atualizada.")
}

// HandleDeleteGalleryItem handles POST /admin/gallery/{id}/delete.
func HandleDeleteGalleryItem(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	removed, err := deps.Settings.RemoveGalleryItem(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		redirectError(w, r, "Imagem não encontrada.")
		return
	}
	if err != nil {
		failed(w, r, err, "Erro ao remover a imagem.")
		return
	}
	deleteImage(r, deps.GalleryImages, removed.ImageURL)
	redirectNotice(w, r, "Imagem removida da galeria.")
}
