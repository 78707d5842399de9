package handlers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dematic-gent/prodreg/internal/gateway"
	"github.com/dematic-gent/prodreg/internal/services/csvport"
	"github.com/dematic-gent/prodreg/internal/services/printer"
)

const maxImportSize = 5 << 20 // 5MB

// importUsers accepts a CSV upload, either as a multipart form with a
// "file" field or as a raw body.
func (r *Router) importUsers(w http.ResponseWriter, req *http.Request) {
	body := importBody(req)
	defer body.Close()

	result, err := r.porter.ImportUsers(req.Context(), body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Fout bij lezen van CSV bestand")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (r *Router) importProducts(w http.ResponseWriter, req *http.Request) {
	body := importBody(req)
	defer body.Close()

	result, err := r.porter.ImportProducts(req.Context(), body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Fout bij lezen van CSV bestand")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func importBody(req *http.Request) io.ReadCloser {
	req.Body = http.MaxBytesReader(nil, req.Body, maxImportSize)
	if file, _, err := req.FormFile("file"); err == nil {
		return file
	}
	return req.Body
}

func (r *Router) exportUsers(w http.ResponseWriter, req *http.Request) {
	data, err := r.porter.ExportUsers()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Fout bij exporteren naar CSV")
		return
	}
	serveDownload(w, "gebruikers_export.csv", "text/csv; charset=utf-8", data)
}

func (r *Router) exportProducts(w http.ResponseWriter, req *http.Request) {
	data, err := r.porter.ExportProducts()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Fout bij exporteren naar CSV")
		return
	}
	serveDownload(w, "producten_export.csv", "text/csv; charset=utf-8", data)
}

func (r *Router) userTemplate(w http.ResponseWriter, req *http.Request) {
	serveDownload(w, "gebruikers_template.csv", "text/csv; charset=utf-8", csvport.UserTemplate())
}

// exportLabelsPDF renders one label page per product with a QR code.
func (r *Router) exportLabelsPDF(w http.ResponseWriter, req *http.Request) {
	data, err := printer.GenerateLabelsPDF(r.stores.Products.Current())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	serveDownload(w, "qr_labels.pdf", "application/pdf", data)
}

// exportLabelPack bundles the ATP-300 Pro files into a zip. The
// instruction sheet is stamped with the requesting admin, taken from
// the request's own token claims.
func (r *Router) exportLabelPack(w http.ResponseWriter, req *http.Request) {
	data, err := printer.GenerateLabelPack(r.stores.Products.Current(), gateway.ActorFrom(req.Context()))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	serveDownload(w, "labelprinter_pack.zip", "application/zip", data)
}

// productQRImage serves the product's QR code as a PNG.
func (r *Router) productQRImage(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	for _, p := range r.stores.Products.Current() {
		if p.ID == id && p.QRCode != "" {
			png, err := printer.EncodeQRPNG(p.QRCode, 300)
			if err != nil {
				respondError(w, http.StatusInternalServerError, "Fout bij genereren van QR code")
				return
			}
			w.Header().Set("Content-Type", "image/png")
			w.Write(png)
			return
		}
	}
	respondError(w, http.StatusNotFound, "Geen QR code voor dit product")
}

// uploadAttachment stores the uploaded file and links it to the
// product.
func (r *Router) uploadAttachment(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, 20<<20)
	file, header, err := req.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Bestand ontbreekt")
		return
	}
	defer file.Close()

	err = r.coord.UploadAttachment(req.Context(), mux.Vars(req)["id"], header.Filename, file)
	r.respondMutation(w, err, "Fout bij uploaden bestand")
}

func (r *Router) removeAttachment(w http.ResponseWriter, req *http.Request) {
	err := r.coord.RemoveAttachment(req.Context(), mux.Vars(req)["id"])
	r.respondMutation(w, err, "Fout bij verwijderen bestand")
}

func serveDownload(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}
