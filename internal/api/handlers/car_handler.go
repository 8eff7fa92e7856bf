// server/internal/api/handlers/car_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"car-rental-api-server/internal/models"
	"car-rental-api-server/internal/s3"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CarHandler struct {
	DB         *mongo.Database
	S3Uploader *s3.Uploader
}

type LocationRequest struct {
	Branch  string `json:"branch" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type CreateCarRequest struct {
	Make         string          `json:"make" binding:"required"`
	Model        string          `json:"model" binding:"required"`
	Year         int             `json:"year" binding:"required,gte=1990"`
	Category     string          `json:"category" binding:"required,oneof=economy compact midsize fullsize luxury suv convertible van"`
	Transmission string          `json:"transmission" binding:"required,oneof=manual automatic"`
	FuelType     string          `json:"fuelType" binding:"required,oneof=gasoline diesel hybrid electric"`
	Seats        int             `json:"seats" binding:"required,gte=2,lte=9"`
	Doors        int             `json:"doors" binding:"required,gte=2,lte=5"`
	PricePerDay  int64           `json:"pricePerDay" binding:"required,gte=0"`
	Mileage      int64           `json:"mileage" binding:"gte=0"`
	Location     LocationRequest `json:"location" binding:"required"`
}

type SetMaintenanceRequest struct {
	MaintenanceStatus string `json:"maintenanceStatus" binding:"required,oneof=available maintenance repair"`
}

// CreateCar adds a car to the fleet.
func (h *CarHandler) CreateCar(c *gin.Context) {
	var req CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newCar := models.Car{
		CarID:             fmt.Sprintf("CAR-%s", uuid.New().String()[:8]),
		Make:              req.Make,
		Model:             req.Model,
		Year:              req.Year,
		Category:          req.Category,
		Transmission:      req.Transmission,
		FuelType:          req.FuelType,
		Seats:             req.Seats,
		Doors:             req.Doors,
		PricePerDay:       req.PricePerDay,
		Mileage:           req.Mileage,
		Location:          models.Location{Branch: req.Location.Branch, Address: req.Location.Address},
		Available:         true,
		MaintenanceStatus: models.MaintenanceAvailable,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	collection := h.DB.Collection("cars")
	result, err := collection.InsertOne(context.Background(), newCar)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create car"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newCar.ID = oid
	}

	c.JSON(http.StatusCreated, newCar)
}

// GetAllCars lists the fleet, narrowed by optional query filters.
func (h *CarHandler) GetAllCars(c *gin.Context) {
	filter := bson.M{}
	if v := c.Query("category"); v != "" {
		filter["category"] = v
	}
	if v := c.Query("transmission"); v != "" {
		filter["transmission"] = v
	}
	if v := c.Query("fuelType"); v != "" {
		filter["fuelType"] = v
	}
	if v := c.Query("branch"); v != "" {
		filter["location.branch"] = v
	}
	if v := c.Query("available"); v != "" {
		avail, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid value for available"})
			return
		}
		filter["available"] = avail
	}

	collection := h.DB.Collection("cars")
	cursor, err := collection.Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query cars"})
		return
	}
	defer cursor.Close(context.Background())

	var cars []models.Car
	if err = cursor.All(context.Background(), &cars); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode cars"})
		return
	}

	if cars == nil {
		cars = []models.Car{}
	}

	c.JSON(http.StatusOK, cars)
}

// GetCarByID returns one car by its carID.
func (h *CarHandler) GetCarByID(c *gin.Context) {
	carID := c.Param("id")

	collection := h.DB.Collection("cars")
	var car models.Car
	err := collection.FindOne(context.Background(), bson.M{"carID": carID}).Decode(&car)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve car"})
		}
		return
	}

	c.JSON(http.StatusOK, car)
}

// UpdateCar replaces the editable fields of a car.
func (h *CarHandler) UpdateCar(c *gin.Context) {
	carID := c.Param("id")

	var req CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("cars")
	result, err := collection.UpdateOne(context.Background(), bson.M{"carID": carID}, bson.M{"$set": bson.M{
		"make":         req.Make,
		"model":        req.Model,
		"year":         req.Year,
		"category":     req.Category,
		"transmission": req.Transmission,
		"fuelType":     req.FuelType,
		"seats":        req.Seats,
		"doors":        req.Doors,
		"pricePerDay":  req.PricePerDay,
		"mileage":      req.Mileage,
		"location":     models.Location{Branch: req.Location.Branch, Address: req.Location.Address},
		"updatedAt":    time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update car"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Car updated successfully"})
}

// DeleteCar retires a car from the fleet by flipping its availability flag.
// The document is kept so booking history stays resolvable.
func (h *CarHandler) DeleteCar(c *gin.Context) {
	carID := c.Param("id")

	collection := h.DB.Collection("cars")
	result, err := collection.UpdateOne(context.Background(), bson.M{"carID": carID}, bson.M{"$set": bson.M{
		"available": false,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete car"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Car removed from fleet"})
}

// SetMaintenanceStatus moves a car in or out of maintenance.
func (h *CarHandler) SetMaintenanceStatus(c *gin.Context) {
	carID := c.Param("id")

	var req SetMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("cars")
	result, err := collection.UpdateOne(context.Background(), bson.M{"carID": carID}, bson.M{"$set": bson.M{
		"maintenanceStatus": req.MaintenanceStatus,
		"updatedAt":         time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update maintenance status"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Maintenance status updated", "maintenanceStatus": req.MaintenanceStatus})
}

// UploadCarPhoto stores a car photo on S3 and appends the pointer to the
// car document.
func (h *CarHandler) UploadCarPhoto(c *gin.Context) {
	carID := c.Param("id")

	collection := h.DB.Collection("cars")
	count, err := collection.CountDocuments(context.Background(), bson.M{"carID": carID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for car"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Car not found"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A photo file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	photoID := uuid.New().String()
	objectKey := fmt.Sprintf("cars/%s/%s", carID, photoID)

	url, err := h.S3Uploader.UploadFile(c.Request.Context(), file, objectKey, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo", "details": err.Error()})
		return
	}

	photo := models.MediaPointer{
		ID:       photoID,
		URL:      url,
		FileName: fileHeader.Filename,
		FileType: contentType,
	}

	_, err = collection.UpdateOne(context.Background(), bson.M{"carID": carID}, bson.M{
		"$push": bson.M{"photos": photo},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo reference"})
		return
	}

	c.JSON(http.StatusCreated, photo)
}
