package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	models "inventario/admin/internal/model"
	"inventario/admin/internal/repository"
	core "inventario/admin/internal/service"
)

// ProductsHandler serves the product list, forms, detail and deletes.
type ProductsHandler struct {
	products  repository.ProductRepository
	cats      repository.LookupRepository
	sups      repository.LookupRepository
	locs      repository.LookupRepository
	images    *core.ImageStore
	qrBaseURL string
}

// NewProductsHandler creates a ProductsHandler.
func NewProductsHandler(products repository.ProductRepository, cats, sups, locs repository.LookupRepository, images *core.ImageStore, qrBaseURL string) *ProductsHandler {
	return &ProductsHandler{
		products:  products,
		cats:      cats,
		sups:      sups,
		locs:      locs,
		images:    images,
		qrBaseURL: qrBaseURL,
	}
}

// ProductForm is the create/edit form payload. Association ids arrive as
// repeated form fields.
type ProductForm struct {
	Nombre      string  `form:"nombre" binding:"required"`
	Descripcion string  `form:"descripcion"`
	Precio      float64 `form:"precio"`
	Stock       int     `form:"stock"`
	StockMinimo int     `form:"stock_minimo"`
	LocationID  *int    `form:"localizacion_id"`
	Categorias  []int   `form:"categorias"`
	Proveedores []int   `form:"proveedores"`
}

// parseProductFilter maps list query parameters onto a ProductFilter.
// Unknown or malformed values are dropped rather than rejected, so a bad
// query string still renders the list with defaults.
func parseProductFilter(c *gin.Context) repository.ProductFilter {
	f := repository.ProductFilter{
		Name:    c.Query("qName"),
		SortBy:  c.Query("sortBy"),
		SortDir: c.Query("sortDir"),
	}

	f.Price = numericQuery(c, "price", "priceOp")
	f.Stock = numericQuery(c, "stock", "stockOp")
	f.MinStock = numericQuery(c, "min", "minOp")
	f.LocationID = intQuery(c, "localizacionId")
	f.CategoryID = intQuery(c, "categoriaId")
	f.SupplierID = intQuery(c, "proveedorId")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Pagination = repository.NewPagination(page, 10)
	return f
}

// numericQuery reads a value/operator query pair. The filter only
// applies when both are present, matching the form's paired selects.
func numericQuery(c *gin.Context, valueKey, opKey string) repository.NumericFilter {
	raw := c.Query(valueKey)
	op := c.Query(opKey)
	if raw == "" || op == "" {
		return repository.NumericFilter{}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return repository.NumericFilter{}
	}
	return repository.NumericFilter{Value: &v, Op: repository.Op(op)}
}

func intQuery(c *gin.Context, key string) *int {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// List renders the filtered, sorted, paginated product list.
func (h *ProductsHandler) List(c *gin.Context) {
	filter := parseProductFilter(c)

	products, total, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products")
		renderError(c)
		return
	}

	opts, err := h.formOptions(c)
	if err != nil {
		renderError(c)
		return
	}

	c.HTML(http.StatusOK, "productos_list.html", gin.H{
		"Title":      "Productos",
		"Session":    CurrentSession(c),
		"Productos":  products,
		"Page":       filter.Pagination.Page,
		"TotalPages": totalPages(total, filter.Pagination.PageSize),
		"Filters":    c.Request.URL.Query(),
		"Opts":       opts,
	})
}

// Form renders the create or edit form. With an id it preloads the
// product and its association ids.
func (h *ProductsHandler) Form(c *gin.Context) {
	opts, err := h.formOptions(c)
	if err != nil {
		renderError(c)
		return
	}

	data := gin.H{
		"Title":   "Nuevo producto",
		"Session": CurrentSession(c),
		"Opts":    opts,
	}

	if idStr := c.Param("id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			c.Redirect(http.StatusFound, "/productos")
			return
		}
		p, err := h.products.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.Redirect(http.StatusFound, "/productos")
				return
			}
			log.Error().Err(err).Int("id", id).Msg("Failed to load product for edit")
			renderError(c)
			return
		}
		data["Title"] = "Editar producto"
		data["Producto"] = p
		data["ImageURL"] = h.images.URL(p.ID)
	}

	c.HTML(http.StatusOK, "productos_form.html", data)
}

// Create inserts a product with its associations and stores the
// uploaded image, if any.
func (h *ProductsHandler) Create(c *gin.Context) {
	var form ProductForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderFormError(c, nil, "Revisa los campos del formulario")
		return
	}

	p := form.toModel()
	if err := h.products.Create(c.Request.Context(), p); err != nil {
		log.Error().Err(err).Msg("Failed to create product")
		h.renderFormError(c, p, "No se pudo guardar el producto")
		return
	}

	h.saveImage(c, p.ID)
	c.Redirect(http.StatusSeeOther, "/productos")
}

// Update rewrites a product, replaces its associations and stores the
// uploaded image, if any.
func (h *ProductsHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/productos")
		return
	}

	var form ProductForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderFormError(c, nil, "Revisa los campos del formulario")
		return
	}

	p := form.toModel()
	p.ID = id
	if err := h.products.Update(c.Request.Context(), p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Redirect(http.StatusFound, "/productos")
			return
		}
		log.Error().Err(err).Int("id", id).Msg("Failed to update product")
		h.renderFormError(c, p, "No se pudo guardar el producto")
		return
	}

	h.saveImage(c, id)
	c.Redirect(http.StatusSeeOther, "/productos")
}

// Delete removes a product and its stored image.
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/productos")
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error().Err(err).Int("id", id).Msg("Failed to delete product")
		renderError(c)
		return
	}

	h.images.Remove(id)
	c.Redirect(http.StatusSeeOther, "/productos")
}

// Detail renders a product with its categories, suppliers, image and a
// QR code embedding the record summary.
func (h *ProductsHandler) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/productos")
		return
	}

	ctx := c.Request.Context()
	p, err := h.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Redirect(http.StatusFound, "/productos")
			return
		}
		log.Error().Err(err).Int("id", id).Msg("Failed to load product detail")
		renderError(c)
		return
	}

	cats, err := h.products.CategoriesOf(ctx, id)
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("Failed to load product categories")
		renderError(c)
		return
	}
	sups, err := h.products.SuppliersOf(ctx, id)
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("Failed to load product suppliers")
		renderError(c)
		return
	}

	catNames := make([]string, len(cats))
	for i, cat := range cats {
		catNames[i] = cat.Nombre
	}
	supNames := make([]string, len(sups))
	for i, sup := range sups {
		supNames[i] = sup.Nombre
	}

	detailURL := h.qrBaseURL + "/productos/" + strconv.Itoa(id)
	qr, err := core.BuildProductQR(p, catNames, supNames, detailURL)
	if err != nil {
		log.Warn().Err(err).Int("id", id).Msg("Failed to generate product QR")
		qr = ""
	}

	c.HTML(http.StatusOK, "productos_detail.html", gin.H{
		"Title":       "Detalle de producto",
		"Session":     CurrentSession(c),
		"Producto":    p,
		"Categorias":  cats,
		"Proveedores": sups,
		"ImageURL":    h.images.URL(id),
		"QR":          qr,
		"ReturnTo":    safeReturnTo(c.Query("returnTo")),
	})
}

func (f *ProductForm) toModel() *models.Product {
	p := &models.Product{
		Nombre:      f.Nombre,
		Precio:      f.Precio,
		Stock:       f.Stock,
		StockMinimo: f.StockMinimo,
		LocationID:  f.LocationID,
		CategoryIDs: f.Categorias,
		SupplierIDs: f.Proveedores,
	}
	if f.Descripcion != "" {
		p.Descripcion = &f.Descripcion
	}
	return p
}

// formOptions loads the select options shared by the list filters and
// the create/edit form.
func (h *ProductsHandler) formOptions(c *gin.Context) (gin.H, error) {
	ctx := c.Request.Context()

	cats, err := h.cats.Options(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load category options")
		return nil, err
	}
	sups, err := h.sups.Options(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load supplier options")
		return nil, err
	}
	locs, err := h.locs.Options(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load location options")
		return nil, err
	}

	return gin.H{
		"Categorias":     cats,
		"Proveedores":    sups,
		"Localizaciones": locs,
	}, nil
}

// saveImage stores the optional "imagen" upload for a product. Upload
// problems are logged but never fail the write that already happened.
func (h *ProductsHandler) saveImage(c *gin.Context, productID int) {
	file, err := c.FormFile("imagen")
	if err != nil {
		return
	}
	if err := h.images.Save(file, productID); err != nil {
		log.Warn().Err(err).Int("product_id", productID).Msg("Failed to store product image")
	}
}

func (h *ProductsHandler) renderFormError(c *gin.Context, p *models.Product, msg string) {
	opts, err := h.formOptions(c)
	if err != nil {
		renderError(c)
		return
	}
	title := "Nuevo producto"
	if p != nil && p.ID != 0 {
		title = "Editar producto"
	}
	c.HTML(http.StatusBadRequest, "productos_form.html", gin.H{
		"Title":    title,
		"Session":  CurrentSession(c),
		"Opts":     opts,
		"Producto": p,
		"Error":    msg,
	})
}

func totalPages(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	pages := total / int64(pageSize)
	if total%int64(pageSize) > 0 {
		pages++
	}
	return pages
}

func renderError(c *gin.Context) {
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Error",
		"Message": "Ha ocurrido un error inesperado",
	})
}
