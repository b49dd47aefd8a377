package common

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func SendErrorResponse(c *gin.Context, err Exception) {
	log.Errorf("Sending error response %v", err)
	c.AbortWithStatusJSON(err.Code, gin.H{
		"status":  false,
		"message": err.Message,
		"type":    err.ErrorType})
}

// CORSMiddleware to apply server middleware for CORS
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func WriteErrorResponse(statusCode int, errorType string, message string, w http.ResponseWriter) {
	log.Error(message)
	errorResponse := ApiError{
		Status: false,
		Err: ErrorDetails{
			Type:    errorType,
			Message: message,
		},
	}
	respJson, errRespJson := json.Marshal(errorResponse)
	if errRespJson != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "Marshal JSON response failed, error=%q\n", errRespJson.Error())
		return
	}

	WriteCustomResponse(statusCode, respJson, w)
}

// to write custom response to the request
func WriteCustomResponse(code int, res []byte, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	WriteRawResponse(code, res, w)
}

// to validate the response body and write raw response
func ValidateAndWriteResponse(resp interface{}, err error, w http.ResponseWriter) {
	if err != nil {
		WriteErrorResponse(http.StatusBadRequest, http.StatusText(http.StatusBadRequest), err.Error(), w)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	successResponse := ApiSuccess{
		Status: true,
		Result: resp,
	}

	successResponseBytes, err := json.Marshal(successResponse)
	if err != nil {
		WriteErrorResponse(http.StatusBadRequest, http.StatusText(http.StatusBadRequest), err.Error(), w)
		return
	}

	WriteRawResponse(http.StatusOK, successResponseBytes, w)
}

func WriteRawResponse(code int, res []byte, w http.ResponseWriter) {
	w.WriteHeader(code)
	w.Write(res)
}
