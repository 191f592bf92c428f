package paymob

// payment key発行時に渡す請求先情報。
// OrderのAddressとUserから組み立てる。
type BillingData struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Street         string `json:"street"`
	Building       string `json:"building"`
	Floor          string `json:"floor"`
	Apartment      string `json:"apartment"`
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
	PostalCode     string `json:"postal_code"`
	ShippingMethod string `json:"shipping_method"`
}

// 欠けている項目は既定値で埋める。Paymobは空のサブフィールドを拒否するが、
// どれも照合には使われないので、欠けていても決済フロー全体は失敗させない。
// 既定値: floor/apartment/building="1", street="Unknown",
// city/state="Cairo", country="EG", postal_code="12345", shipping_method="PKG",
// last_name="Customer"。
func (b BillingData) withDefaults() BillingData {
	if b.LastName == "" {
		b.LastName = "Customer"
	}
	if b.Street == "" {
		b.Street = "Unknown"
	}
	if b.Building == "" {
		b.Building = "1"
	}
	if b.Floor == "" {
		b.Floor = "1"
	}
	if b.Apartment == "" {
		b.Apartment = "1"
	}
	if b.City == "" {
		b.City = "Cairo"
	}
	if b.State == "" {
		b.State = "Cairo"
	}
	if b.Country == "" {
		b.Country = "EG"
	}
	if b.PostalCode == "" {
		b.PostalCode = "12345"
	}
	if b.ShippingMethod == "" {
		b.ShippingMethod = "PKG"
	}
	return b
}
