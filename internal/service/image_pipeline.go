package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // Register GIF decoder
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"tactac/internal/config"
	"tactac/internal/middleware"
	"tactac/internal/models"
	"tactac/internal/observability"
	"tactac/internal/storage"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ImageVariant names the processing applied to an upload.
type ImageVariant string

const (
	// VariantPost fits the image inside a square box without enlarging it.
	VariantPost ImageVariant = "post"
	// VariantProfile crops the image to a centered square of fixed size.
	VariantProfile ImageVariant = "profile"
)

// ImageUpload is one uploaded file as received from the client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ImageStore stores processed images and releases them.
type ImageStore interface {
	Store(ctx context.Context, in ImageUpload, variant ImageVariant) (string, error)
	Release(ctx context.Context, url string)
}

// ImagePipeline validates, normalizes and stores uploaded images.
type ImagePipeline struct {
	store  storage.Store
	limits config.Limits
}

func NewImagePipeline(store storage.Store, limits config.Limits) *ImagePipeline {
	return &ImagePipeline{store: store, limits: limits}
}

// Store validates the upload, re-encodes it as WebP for variant and returns its public URL.
func (p *ImagePipeline) Store(ctx context.Context, in ImageUpload, variant ImageVariant) (string, error) {
	if len(in.Content) == 0 {
		return "", models.NewValidationError("Image is required")
	}
	if int64(len(in.Content)) > p.limits.ImageMaxBytes {
		return "", models.NewValidationError(fmt.Sprintf("Image must be %dMB or smaller", p.limits.ImageMaxBytes/(1024*1024)))
	}

	detected := normalizeContentType(http.DetectContentType(in.Content))
	if !p.limits.AllowsMIME(detected) {
		return "", models.NewValidationError("Only JPEG, PNG, GIF and WebP images are allowed")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !p.limits.AllowsMIME(provided) {
		return "", models.NewValidationError("Only JPEG, PNG, GIF and WebP images are allowed")
	}

	done := observability.TrackImage(string(variant))
	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		done()
		return "", models.NewValidationError("Invalid image file")
	}

	var processed image.Image
	var prefix string
	switch variant {
	case VariantProfile:
		side := p.limits.ProfileImageSide
		processed = coverSquare(decoded, side)
		prefix = "profiles"
	default:
		side := p.limits.PostImageMaxSide
		processed = resizeToFit(decoded, side, side)
		prefix = "posts"
	}

	encoded, err := encodeWebP(processed, p.limits.ImageWebPQuality)
	done()
	if err != nil {
		return "", models.NewInternalError(err)
	}

	key := fmt.Sprintf("%s/%s.webp", prefix, uuid.NewString())
	url, err := p.store.Put(ctx, key, encoded, "image/webp")
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return url, nil
}

// Release deletes a stored image. Failures are logged and otherwise ignored;
// a leaked object never blocks the operation that released it.
func (p *ImagePipeline) Release(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := p.store.Delete(ctx, url); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to release stored image",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
	}
}

// coverSquare scales src so that it covers a side x side square, then crops the center.
func coverSquare(src image.Image, side int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || side <= 0 {
		return src
	}

	crop := w
	if h < crop {
		crop = h
	}
	x := b.Min.X + (w-crop)/2
	y := b.Min.Y + (h-crop)/2

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, image.Rect(x, y, x+crop, y+crop), xdraw.Src, nil)
	return dst
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return flatten(src)
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

// flatten copies paletted and other exotic color models into RGBA for the encoder.
func flatten(src image.Image) image.Image {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func normalizeContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	mediaType = strings.ToLower(mediaType)
	if mediaType == "image/jpg" {
		return "image/jpeg"
	}
	return mediaType
}
