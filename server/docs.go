package server

import (
	"io"
	"net/http"
)

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, openapiDocument)
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, swaggerPage)
}

func (s *Server) handleRedoc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, redocPage)
}

// openapiDocument is maintained by hand; the surface is a single operation
// and keeping the schema inline avoids a generator dependency.
const openapiDocument = `{
  "openapi": "3.0.3",
  "info": {
    "title": "ocrkit OCR gateway",
    "description": "HTTP gateway exposing a pretrained OCR model. Upload an image, get recognized text back.",
    "version": "1.0.0"
  },
  "paths": {
    "/ocr": {
      "post": {
        "summary": "Recognize text in an image",
        "requestBody": {
          "required": true,
          "content": {
            "multipart/form-data": {
              "schema": {
                "type": "object",
                "properties": {
                  "file": {"type": "string", "format": "binary", "description": "Image file (png, jpeg, gif, tiff, bmp, webp)"},
                  "by_base64": {"type": "string", "description": "Base64-encoded image, alternative to file"},
                  "ocr_type": {"type": "string", "enum": ["ocr", "format"], "default": "ocr", "description": "ocr returns plain text; format adds hOCR markup"},
                  "render": {"type": "boolean", "default": false, "description": "Return hOCR as text/html (format type only)"},
                  "ocr_box": {"type": "string", "description": "Restrict recognition to a region, x1,y1,x2,y2 in pixels"},
                  "languages": {"type": "string", "description": "Comma-separated trained-data language hints, e.g. eng,deu"},
                  "psm": {"type": "integer", "description": "Tesseract page segmentation mode"},
                  "dpi": {"type": "integer", "description": "Effective image DPI"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "Recognized text",
            "content": {
              "application/json": {
                "schema": {"$ref": "#/components/schemas/OCRResponse"}
              },
              "text/html": {
                "schema": {"type": "string", "description": "hOCR markup (render mode)"}
              }
            }
          },
          "400": {"description": "Missing or undecodable image, or invalid options", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}},
          "413": {"description": "Request body exceeds the upload limit", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}},
          "500": {"description": "Inference failed", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/healthz": {
      "get": {
        "summary": "Liveness check",
        "responses": {
          "200": {"description": "Service is up and the model is loaded"}
        }
      }
    }
  },
  "components": {
    "schemas": {
      "OCRResponse": {
        "type": "object",
        "required": ["text"],
        "properties": {
          "text": {"type": "string", "description": "Extracted text"},
          "blocks": {"type": "array", "items": {"$ref": "#/components/schemas/TextBlock"}},
          "hocr": {"type": "string", "description": "hOCR markup (format type only)"},
          "language": {"type": "string"}
        }
      },
      "TextBlock": {
        "type": "object",
        "properties": {
          "text": {"type": "string"},
          "bounds": {"$ref": "#/components/schemas/Region"},
          "lines": {"type": "array", "items": {"type": "object"}},
          "confidence": {"type": "number"}
        }
      },
      "Region": {
        "type": "object",
        "properties": {
          "X": {"type": "number"},
          "Y": {"type": "number"},
          "Width": {"type": "number"},
          "Height": {"type": "number"}
        }
      },
      "ErrorResponse": {
        "type": "object",
        "required": ["error"],
        "properties": {
          "error": {"type": "string"}
        }
      }
    }
  }
}`

const swaggerPage = `<!DOCTYPE html>
<html>
<head>
  <title>ocrkit API</title>
  <meta charset="utf-8"/>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css"/>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({url: "/openapi.json", dom_id: "#swagger-ui"});
  </script>
</body>
</html>`

const redocPage = `<!DOCTYPE html>
<html>
<head>
  <title>ocrkit API</title>
  <meta charset="utf-8"/>
</head>
<body>
  <redoc spec-url="/openapi.json"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`
