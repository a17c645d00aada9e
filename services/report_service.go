package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	config "github.com/dlGuiri/Dental-Lens/configs"
	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerateScanReport renders the scan record into a PDF report,
// uploads it and stores the URL on the record. Returns the report URL.
func GenerateScanReport(db *gorm.DB, recordID uuid.UUID) (string, error) {
	var record models.ScanRecord
	if err := db.Preload("User").First(&record, "id = ?", recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	htmlData, err := renderReportHTML(record)
	if err != nil {
		return "", fmt.Errorf("render report HTML: %w", err)
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		return "", fmt.Errorf("render report PDF: %w", err)
	}

	reportURL, err := uploadReport(pdfBytes, record.UserID.String())
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}

	if err := db.Model(&record).Update("report_url", reportURL).Error; err != nil {
		return "", err
	}
	return reportURL, nil
}

func renderReportHTML(record models.ScanRecord) (string, error) {
	tmpl, err := template.ParseFiles("templates/scan_report.html")
	if err != nil {
		return "", err
	}

	scanDate := record.CreatedAt.Format("January 2, 2006")
	if record.Date != nil && *record.Date != "" {
		scanDate = *record.Date
	}

	data := struct {
		PatientName string
		ScanDate    string
		GeneratedAt string
		Result      []string
		Notes       []string
		ImageURLs   []string
		LimeURL     string
	}{
		PatientName: record.User.Name,
		ScanDate:    scanDate,
		GeneratedAt: time.Now().Format("January 2, 2006"),
		Result:      record.Result,
		Notes:       record.Notes,
		ImageURLs:   record.ImageURLs,
	}
	if record.LimeVisualizationURL != nil {
		data.LimeURL = *record.LimeVisualizationURL
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReport(fileBytes []byte, userID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("reports/%s_%s", userID, uuid.New().String()),
		Folder:       "dental_lens_reports",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
