package service

import (
	"salonbook/internal/domains/booking/model"
	providerModel "salonbook/internal/domains/provider/model"
	"salonbook/shared/constant"
)

// Access is what a requester may do with one booking.
type Access struct {
	IsAdmin          bool
	IsOwningCustomer bool
	IsOwningProvider bool
}

// access is the single place that decides who acts on a booking.
func access(requester model.Requester, booking model.Booking, provider providerModel.Provider) Access {
	return Access{
		IsAdmin:          requester.IsAdmin(),
		IsOwningCustomer: requester.UserID != constant.Empty && booking.CustomerID == requester.UserID,
		IsOwningProvider: requester.UserID != constant.Empty && provider.ID == booking.ProviderID && provider.UserID == requester.UserID,
	}
}

// CanModify covers update, cancel and reschedule.
func (a Access) CanModify() bool {
	return a.IsAdmin || a.IsOwningCustomer || a.IsOwningProvider
}

// CanOperate covers check-in and completion.
func (a Access) CanOperate() bool {
	return a.IsAdmin || a.IsOwningProvider
}

func (a Access) CanRemove() bool {
	return a.IsAdmin || a.IsOwningCustomer
}
