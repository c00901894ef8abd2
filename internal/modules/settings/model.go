package settings

// Keys recognized by the settings surface. Unset keys read as "".
var KnownKeys = []string{
	"storeName",
	"storeEmail",
	"storePhone",
	"storeAddress",
	"shippingFlatCents",
	"freeShippingThresholdCents",
	"taxRatePercent",
	"invoiceFooter",
	"emailFooter",
}

// DefaultShippingFlatCents applies when shippingFlatCents is unset.
const DefaultShippingFlatCents = 800
