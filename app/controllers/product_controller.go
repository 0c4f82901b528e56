package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/duolink/cotizador/app/services"
	"github.com/duolink/cotizador/pkg/response"
	"github.com/duolink/cotizador/pkg/validate"
)

const maxImageSize = 5 << 20 // 5 MiB

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// Index lists products with pagination. ?category= and ?active=true
// narrow the listing.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	category := r.URL.Query().Get("category")
	activeOnly := r.URL.Query().Get("active") == "true"

	products, pagination, err := c.products.List(page, limit, category, activeOnly)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Paginated(w, products, pagination)
}

// Show returns one product.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := c.products.Find(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, product)
}

// Store creates a product.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var body services.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Create(body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Created(w, product)
}

// Update replaces a product's editable fields.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var body services.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Update(id, body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, product)
}

type setQtyRequest struct {
	Qty *int `json:"qty" validate:"required|gte:0"`
}

// UpdateQty sets the product's stock to an absolute value.
func (c *ProductController) UpdateQty(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var body setQtyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.SetQty(id, *body.Qty)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, product)
}

// Destroy deletes a product.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := c.products.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, map[string]bool{"deleted": true})
}

// UploadImage accepts a multipart image and attaches it to the product.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image field")
		return
	}
	defer file.Close()

	product, err := c.products.AttachImage(id, header.Filename, file)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, product)
}
