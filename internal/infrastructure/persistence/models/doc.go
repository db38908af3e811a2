// Package models contains the GORM persistence models for the write side.
// Domain aggregates stay free of ORM tags; each model converts to and from its
// aggregate with ToDomain and FromDomain.
//
//   - member.go: MemberModel (table member)
//   - item.go: ItemModel (table item, single-table hierarchy keyed by dtype)
//   - order.go: OrderModel, DeliveryModel, OrderItemModel (orders, delivery, order_item)
package models
