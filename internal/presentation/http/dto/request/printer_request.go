package request

// ConnectPrinterRequest is the request body for connecting a printer.
type ConnectPrinterRequest struct {
	Transport string `json:"transport" binding:"required,oneof=radio wired bluetooth usb"`
}
