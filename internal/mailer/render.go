package mailer

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/megami-llc/order-server/internal/catalog"
	"github.com/megami-llc/order-server/internal/order"
)

// emailView is the data handed to both email templates. Rendering takes a
// typed order.Record and produces a document string; it knows nothing about
// how the document is delivered.
type emailView struct {
	OrderID       string
	CustomerName  string
	KanaName      string
	SalonName     string
	Email         string
	Phone         string
	OrderType     string
	OrderedAt     string
	Items         []itemView
	Subtotal      string
	ShippingLabel string
	Total         string
	BankTransfer  bool
	PostalCode    string
	Street        string
	Building      string
	DeliveryTime  string
	PaymentMethod string
}

type itemView struct {
	Name     string
	Quantity string
	Amount   string
}

var (
	customerTmpl = template.Must(template.New("customer").Parse(customerTemplate))
	adminTmpl    = template.Must(template.New("admin").Parse(adminTemplate))
)

// RenderConfirmation renders the customer-facing order confirmation.
func RenderConfirmation(rec order.Record) (string, error) {
	var b strings.Builder
	if err := customerTmpl.Execute(&b, newView(rec)); err != nil {
		return "", fmt.Errorf("mailer: render confirmation: %w", err)
	}
	return b.String(), nil
}

// RenderAdminAlert renders the admin-facing new-order notification.
func RenderAdminAlert(rec order.Record) (string, error) {
	var b strings.Builder
	if err := adminTmpl.Execute(&b, newView(rec)); err != nil {
		return "", fmt.Errorf("mailer: render admin alert: %w", err)
	}
	return b.String(), nil
}

func newView(rec order.Record) emailView {
	var items []itemView
	if rec.MegamiQuantity > 0 {
		items = append(items, itemView{
			Name:     catalog.Megami.Name,
			Quantity: fmt.Sprintf("%d個", rec.MegamiQuantity),
			Amount:   formatYen(int64(rec.MegamiQuantity) * catalog.Megami.Price),
		})
	}
	if rec.LeafletQuantity > 0 {
		items = append(items, itemView{
			Name:     catalog.Leaflet.Name,
			Quantity: fmt.Sprintf("%d枚", rec.LeafletQuantity),
			Amount:   formatYen(int64(rec.LeafletQuantity) * catalog.Leaflet.Price),
		})
	}

	shippingLabel := "無料"
	if rec.Shipping > 0 {
		shippingLabel = formatYen(rec.Shipping)
	}

	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		loc = time.UTC
	}

	return emailView{
		OrderID:       rec.ID,
		CustomerName:  rec.FullName(),
		KanaName:      rec.KanaName(),
		SalonName:     rec.SalonName,
		Email:         rec.Email,
		Phone:         rec.Phone,
		OrderType:     rec.OrderTypeLabel(),
		OrderedAt:     rec.CreatedAt.In(loc).Format("2006/01/02 15:04:05"),
		Items:         items,
		Subtotal:      formatYen(rec.Subtotal),
		ShippingLabel: shippingLabel,
		Total:         formatYen(rec.Total),
		BankTransfer:  rec.PaymentMethod == order.PaymentBankTransfer,
		PostalCode:    rec.PostalCode,
		Street:        rec.Prefecture + rec.City + rec.Address,
		Building:      rec.Building,
		DeliveryTime:  rec.DeliveryTime,
		PaymentMethod: rec.PaymentMethodLabel(),
	}
}

// formatYen renders an amount as "¥1,234".
func formatYen(n int64) string {
	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	b.WriteString("¥")
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}

const itemsTableTemplate = `<table border="1" style="border-collapse: collapse; width: 100%;">
    <tr style="background-color: #f5f5f5;">
        <th style="padding: 8px;">商品名</th>
        <th style="padding: 8px;">数量</th>
        <th style="padding: 8px;">金額</th>
    </tr>
    {{- range .Items}}
    <tr>
        <td style="padding: 8px;">{{.Name}}</td>
        <td style="padding: 8px;">{{.Quantity}}</td>
        <td style="padding: 8px;">{{.Amount}}</td>
    </tr>
    {{- end}}
    <tr>
        <td style="padding: 8px;"><strong>商品合計</strong></td>
        <td style="padding: 8px;"></td>
        <td style="padding: 8px;"><strong>{{.Subtotal}}</strong></td>
    </tr>
    <tr>
        <td style="padding: 8px;">送料</td>
        <td style="padding: 8px;"></td>
        <td style="padding: 8px;">{{.ShippingLabel}}</td>
    </tr>
    <tr style="background-color: #f5f5f5;">
        <td style="padding: 8px;"><strong>合計</strong></td>
        <td style="padding: 8px;"></td>
        <td style="padding: 8px;"><strong>{{.Total}}</strong></td>
    </tr>
</table>`

const customerTemplate = `<h2>ご注文ありがとうございます</h2>
<p>{{.CustomerName}} 様</p>

<p>以下の内容でご注文を承りました。</p>

<h3>注文詳細</h3>
<p><strong>注文番号:</strong> {{.OrderID}}</p>
<p><strong>注文種別:</strong> {{.OrderType}}</p>

<h3>商品内容</h3>
` + itemsTableTemplate + `
{{if .BankTransfer}}
<h3>お振込先口座情報</h3>
<div style="background: #fff3cd; padding: 15px; border-radius: 5px; margin: 15px 0;">
    <p><strong>金融機関名:</strong> 鹿児島信用金庫</p>
    <p><strong>支店名:</strong> 隼人支店</p>
    <p><strong>口座種別:</strong> 普通預金</p>
    <p><strong>口座番号:</strong> 7552868</p>
    <p><strong>名義人:</strong> メガミ(ド)</p>
    <p style="color: #856404; font-size: 14px; margin-top: 10px;">※ お振込確認後、発送いたします</p>
</div>
{{end}}
<h3>配送先情報</h3>
<p>
{{.PostalCode}}<br>
{{.Street}}<br>
{{.Building}}<br>
配達希望時間: {{.DeliveryTime}}
</p>

<h3>お支払い方法</h3>
<p>{{.PaymentMethod}}</p>

<hr>
<p>ご不明な点がございましたら、お気軽にお問い合わせください。</p>
<p><strong>MEGAMI合同会社</strong><br>
電話: 0995-55-8368</p>
`

const adminTemplate = `<h2>新しい注文が入りました</h2>

<h3>注文情報</h3>
<p><strong>注文番号:</strong> {{.OrderID}}</p>
<p><strong>注文種別:</strong> {{.OrderType}}</p>
<p><strong>注文日時:</strong> {{.OrderedAt}}</p>

<h3>お客様情報</h3>
<p><strong>お名前:</strong> {{.CustomerName}} ({{.KanaName}})</p>
<p><strong>サロン名:</strong> {{.SalonName}}</p>
<p><strong>メール:</strong> {{.Email}}</p>
<p><strong>電話:</strong> {{.Phone}}</p>

<h3>配送先</h3>
<p>{{.PostalCode}}<br>
{{.Street}}<br>
{{.Building}}<br>
配達希望時間: {{.DeliveryTime}}</p>

<h3>注文内容</h3>
` + itemsTableTemplate + `

<h3>支払い方法</h3>
<p>{{.PaymentMethod}}</p>
`
