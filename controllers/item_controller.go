package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ShehanaHewage/TheCloset/models"
	"github.com/ShehanaHewage/TheCloset/services"
)

// ItemController handles catalog requests.
type ItemController struct {
	items services.ItemService
	cache *CatalogCache
}

// NewItemController creates an ItemController. cache may be nil.
func NewItemController(items services.ItemService, cache *CatalogCache) *ItemController {
	return &ItemController{items: items, cache: cache}
}

func itemFilterFromQuery(c *gin.Context) (*models.ItemFilter, *services.ServiceError) {
	filter := &models.ItemFilter{
		Code:  c.Query("code"),
		Type:  c.Query("type"),
		Size:  c.Query("size"),
		Title: c.Query("title"),
	}

	if raw := queryValue(c, "startPrice", "start_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, services.NewServiceError(http.StatusBadRequest, "Invalid startPrice value")
		}
		filter.StartPrice = &v
	}
	if raw := queryValue(c, "endPrice", "end_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, services.NewServiceError(http.StatusBadRequest, "Invalid endPrice value")
		}
		filter.EndPrice = &v
	}
	if raw := queryValue(c, "stockStatus", "stock_status"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, services.NewServiceError(http.StatusBadRequest, "Invalid stockStatus value")
		}
		filter.StockStatus = &v
	}

	return filter, nil
}

// List handles GET /items with filters and pagination.
func (ic *ItemController) List(c *gin.Context) {
	cacheKey := c.Request.URL.RawQuery
	if payload, ok := ic.cache.Get(c.Request.Context(), cacheKey); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	filter, svcErr := itemFilterFromQuery(c)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}
	page, limit := paginationParams(c)

	items, total, svcErr := ic.items.List(c.Request.Context(), *filter, page, limit)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	body := gin.H{
		"items":      items,
		"pagination": models.NewPagination(total, page, limit),
	}
	if payload, err := json.Marshal(body); err == nil {
		ic.cache.Set(c.Request.Context(), cacheKey, payload)
	}

	c.JSON(http.StatusOK, body)
}

// Get handles GET /items/:id.
func (ic *ItemController) Get(c *gin.Context) {
	item, svcErr := ic.items.Get(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Create handles POST /items (admin).
func (ic *ItemController) Create(c *gin.Context) {
	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, svcErr := ic.items.Create(c.Request.Context(), &req)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	ic.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, item)
}

// Update handles PUT /items/:id (admin).
func (ic *ItemController) Update(c *gin.Context) {
	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, svcErr := ic.items.Update(c.Request.Context(), c.Param("id"), &req)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	ic.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /items/:id (admin).
func (ic *ItemController) Delete(c *gin.Context) {
	if svcErr := ic.items.Delete(c.Request.Context(), c.Param("id")); svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	ic.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true})
}
