package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pricewatch/internal/domain"
)

type createProductRequest struct {
	URL string `json:"url" binding:"required,url"`
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func createProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "a valid product url is required"})
			return
		}

		p, err := svc.ScrapeAndStore(c.Request.Context(), req.URL)
		if err != nil {
			if errors.Is(err, domain.ErrSnapshotIncomplete) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "product page could not be read"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"message": "failed to scrape product"})
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func listProductsHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list products"})
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func getProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load product"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func similarProductsHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.Similar(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load similar products"})
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func subscribeHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "a valid email is required"})
			return
		}

		if err := svc.Subscribe(c.Request.Context(), c.Param("id"), req.Email); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to subscribe"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "subscribed"})
	}
}
