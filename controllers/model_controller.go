package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/medidetect/medidetect-backend/models"
)

type RegisterModelInput struct {
	Version string                 `json:"version" binding:"required"`
	Metrics map[string]interface{} `json:"metrics"`
}

// RegisterModel adds a model version to the registry in staging state.
func RegisterModel(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input RegisterModelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.ModelRecord
	if err := db.Where("version = ?", input.Version).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Model version already registered"})
		return
	}

	record := models.ModelRecord{
		Version: input.Version,
		Status:  models.ModelStaging,
	}
	if input.Metrics != nil {
		raw, _ := json.Marshal(input.Metrics)
		record.Metrics = datatypes.JSON(raw)
	}

	if err := db.Create(&record).Error; err != nil {
		if isDuplicate(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Model version already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot register model"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// DeployModel promotes one version to deployed and demotes the current
// deployed record to staging in the same transaction, so at most one record
// is ever deployed.
func DeployModel(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var record models.ModelRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Model not found"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ModelRecord{}).
			Where("status = ? AND id <> ?", models.ModelDeployed, id).
			Update("status", models.ModelStaging).Error; err != nil {
			return err
		}
		return tx.Model(&models.ModelRecord{}).
			Where("id = ?", id).
			Update("status", models.ModelDeployed).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Deploy failed"})
		return
	}

	db.First(&record, "id = ?", id)
	c.JSON(http.StatusOK, record)
}

func GetModels(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var records []models.ModelRecord
	if err := db.Order("created_at DESC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot list models"})
		return
	}
	c.JSON(http.StatusOK, records)
}
